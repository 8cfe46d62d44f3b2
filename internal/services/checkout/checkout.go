// Package checkout реализует оформление покупки: проверку остатков по всем
// позициям корзины, частичное исполнение, списание склада, запись
// неизменяемого чека и перезапись корзины остатком.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

// Ошибки оформления покупки.
var (
	// ErrEmptyCart корзина не содержит ни одной позиции.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNothingPurchasable ни одна позиция не обеспечена остатком.
	ErrNothingPurchasable = errors.New("no purchasable items in cart")
)

// CartRepository покрывает операции с корзиной, нужные оформлению.
type CartRepository interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	ReplaceCartItems(ctx context.Context, cartID string, items []*models.CartItem) error
}

// Catalog покрывает чтение карточек и атомарное списание остатков.
// Списание сериализует параллельные оформления одного товара на стороне
// хранилища; движок не предполагает монопольного доступа к записи товара
// между своим чтением и записью.
type Catalog interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error)
}

// TicketRepository сохраняет чек покупки.
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error)
}

// Engine выполняет оформление покупки по корзине.
type Engine struct {
	carts   CartRepository
	catalog Catalog
	tickets TicketRepository
	log     *slog.Logger
}

// New создает новый экземпляр Engine.
func New(carts CartRepository, catalog Catalog, tickets TicketRepository, log *slog.Logger) *Engine {
	return &Engine{
		carts:   carts,
		catalog: catalog,
		tickets: tickets,
		log:     log,
	}
}

// Purchase оформляет покупку по корзине cartID от имени purchaser (email).
//
// Каждая позиция либо выкупается целиком — условное списание остатка, снимок
// {товар, количество, цена, название} в чек — либо целиком остаётся в корзине
// с записью в отчёте о нехватке. Частичное исполнение — нормальный исход:
// чек создаётся по выкупленным позициям, корзина перезаписывается остатком
// в исходных количествах. Пустая корзина возвращает ErrEmptyCart, полная
// нехватка по всем позициям — ErrNothingPurchasable; ни то ни другое не
// оставляет следов в хранилище.
func (e *Engine) Purchase(ctx context.Context, cartID, purchaser string) (*models.PurchaseResult, error) {
	const op = "checkout.Purchase"

	cart, err := e.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var (
		purchased  []*models.TicketItem
		remainder  []*models.CartItem
		outOfStock []*models.OutOfStockItem
		total      float64
	)

	for _, item := range cart.Items {
		product, err := e.catalog.Get(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Товар удалён из каталога: позиция не выкупается и остаётся в корзине.
				outOfStock = append(outOfStock, &models.OutOfStockItem{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: 0,
				})
				remainder = append(remainder, item)
				continue
			}
			return nil, err
		}

		ok, err := e.catalog.DecrementStockIfAvailable(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			outOfStock = append(outOfStock, &models.OutOfStockItem{
				ProductID: item.ProductID,
				Title:     product.Title,
				Requested: item.Quantity,
				Available: product.Stock,
			})
			remainder = append(remainder, item)
			continue
		}

		purchased = append(purchased, &models.TicketItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		total += product.Price * float64(item.Quantity)
	}

	if len(purchased) == 0 {
		return nil, ErrNothingPurchasable
	}

	ticket, err := e.tickets.CreateTicket(ctx, models.Ticket{
		Purchaser:        purchaser,
		Amount:           total,
		PurchaseDatetime: time.Now().UTC(),
		Items:            purchased,
	})
	if err != nil {
		return nil, err
	}

	if err := e.carts.ReplaceCartItems(ctx, cartID, remainder); err != nil {
		return nil, err
	}

	e.log.Info("purchase completed",
		slog.String("op", op),
		slog.String("cart", cartID),
		slog.String("ticket", ticket.Code),
		slog.Float64("amount", total),
		slog.Int("purchased", len(purchased)),
		slog.Int("out_of_stock", len(outOfStock)))

	if remainder == nil {
		remainder = []*models.CartItem{}
	}
	if outOfStock == nil {
		outOfStock = []*models.OutOfStockItem{}
	}
	return &models.PurchaseResult{
		Ticket:     ticket,
		Remainder:  remainder,
		OutOfStock: outOfStock,
	}, nil
}
