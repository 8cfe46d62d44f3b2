// Package catalog содержит бизнес-логику каталога товаров: постраничные
// выборки с фильтром и сортировкой, CRUD с валидацией и атомарное списание
// остатков, используемое оформлением покупки.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// CreateProduct добавляет новый товар и возвращает его ID.
	CreateProduct(ctx context.Context, product models.Product) (string, error)
	// GetProduct возвращает товар по ID.
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProducts возвращает страницу каталога и общее число записей.
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	// UpdateProduct обновляет данные товара по ID.
	UpdateProduct(ctx context.Context, id string, product models.Product) error
	// DeleteProduct удаляет товар по ID.
	DeleteProduct(ctx context.Context, id string) error
	// DecrementStockIfAvailable атомарно списывает остаток, если его хватает.
	DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error)
}

// Cache описывает методы для кэширования карточек товаров.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier получает уведомление о каждом добавлении и удалении товара.
// Канал живых обновлений рассылает по нему свежую страницу каталога.
type Notifier interface {
	CatalogChanged()
}

// Service реализует бизнес-логику каталога, включая кеширование чтений.
type Service struct {
	repo     ProductRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProductRepository, cache Cache, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// List возвращает страницу каталога с навигационными полями.
// limit и page меньше 1 приводятся к значениям по умолчанию.
func (s *Service) List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	items, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	page := &models.ProductPage{
		Items:       items,
		Page:        filter.Page,
		TotalPages:  totalPages,
		TotalDocs:   total,
		HasPrevPage: filter.Page > 1,
		HasNextPage: filter.Page < totalPages,
	}
	if page.Items == nil {
		page.Items = []*models.Product{}
	}
	if page.HasPrevPage {
		prev := filter.Page - 1
		page.PrevPage = &prev
	}
	if page.HasNextPage {
		next := filter.Page + 1
		page.NextPage = &next
	}
	return page, nil
}

// Get возвращает товар по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Create создает новый товар и уведомляет канал живых обновлений.
func (s *Service) Create(ctx context.Context, req models.DummyProduct) (string, error) {
	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Available:   req.Available,
		Thumbnails:  req.Thumbnails,
	}

	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return "", err
	}

	s.log.Info("created new product", slog.String("id", id), slog.String("code", req.Code))
	s.notifier.CatalogChanged()
	return id, nil
}

// Update обновляет товар и инвалидирует его запись в кеше.
func (s *Service) Update(ctx context.Context, id string, req models.DummyProduct) error {
	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Available:   req.Available,
		Thumbnails:  req.Thumbnails,
	}
	if err := s.repo.UpdateProduct(ctx, id, product); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("product:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate product cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.log.Info("updated product", slog.String("id", id))
	return nil
}

// Delete удаляет товар, инвалидирует кеш и уведомляет канал живых обновлений.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("product:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate product cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.log.Info("deleted product", slog.String("id", id))
	s.notifier.CatalogChanged()
	return nil
}

// DecrementStockIfAvailable атомарно списывает остаток товара и при успехе
// инвалидирует его запись в кеше. Возвращает true, если остатка хватило.
func (s *Service) DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error) {
	ok, err := s.repo.DecrementStockIfAvailable(ctx, id, quantity)
	if err != nil {
		return false, err
	}
	if ok {
		cacheKey := fmt.Sprintf("product:%s", id)
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate product cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return ok, nil
}
