// Package cart содержит бизнес-логику корзин: создание, чтение с подгрузкой
// товаров, изменение позиций и удаление.
package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// ErrInvalidQuantity количество позиции меньше 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartRepository определяет методы для работы с корзинами в хранилище.
type CartRepository interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddCartItem(ctx context.Context, cartID, productID string) error
	UpdateCartItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, cartID, productID string) error
	ClearCart(ctx context.Context, cartID string) error
	DeleteCart(ctx context.Context, cartID string) error
}

// ProductReader выдаёт товары каталога для проверки существования
// и прикладного join-а содержимого корзины.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error)
}

// Service реализует бизнес-логику работы с корзинами.
type Service struct {
	repo     CartRepository
	products ProductReader
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo CartRepository, products ProductReader, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		log:      log,
	}
}

// Create создает пустую корзину.
func (s *Service) Create(ctx context.Context) (*models.Cart, error) {
	cart, err := s.repo.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new cart", slog.String("id", cart.ID))
	return cart, nil
}

// Get возвращает корзину с подгруженными карточками товаров. Товары
// подтягиваются одним batch-запросом; позиция с удалённым товаром
// возвращается без карточки.
func (s *Service) Get(ctx context.Context, cartID string) (*models.CartView, error) {
	cart, err := s.repo.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		ID:    cart.ID,
		Items: make([]*models.CartItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		view.Items = append(view.Items, &models.CartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   products[item.ProductID],
		})
	}
	return view, nil
}

// AddItem добавляет товар в корзину: новая позиция с количеством 1,
// существующая увеличивается на 1. Товар должен существовать в каталоге.
func (s *Service) AddItem(ctx context.Context, cartID, productID string) error {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.AddCartItem(ctx, cartID, productID); err != nil {
		return err
	}
	s.log.Info("added product to cart",
		slog.String("cart", cartID), slog.String("product", productID))
	return nil
}

// SetQuantity устанавливает количество позиции. Количество меньше 1
// возвращает ErrInvalidQuantity.
func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.repo.UpdateCartItemQuantity(ctx, cartID, productID, quantity)
}

// RemoveItem удаляет позицию из корзины.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) error {
	return s.repo.RemoveCartItem(ctx, cartID, productID)
}

// Clear опустошает корзину, не удаляя её саму.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	return s.repo.ClearCart(ctx, cartID)
}

// Delete полностью удаляет корзину. Операция доступна только администратору.
func (s *Service) Delete(ctx context.Context, cartID string) error {
	if err := s.repo.DeleteCart(ctx, cartID); err != nil {
		return err
	}
	s.log.Info("deleted cart", slog.String("id", cartID))
	return nil
}
