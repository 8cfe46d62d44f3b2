package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateProduct(ctx context.Context, product models.Product) (string, error) {
	args := m.Called(ctx, product)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *RepoMock) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}
func (m *RepoMock) UpdateProduct(ctx context.Context, id string, product models.Product) error {
	return m.Called(ctx, id, product).Error(0)
}
func (m *RepoMock) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) CatalogChanged() {
	m.Called()
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_List(t *testing.T) {
	products := []*models.Product{
		{ID: "a", Title: "Чай"},
		{ID: "b", Title: "Кофе"},
	}

	tests := []struct {
		name        string
		filter      models.ProductFilter
		setupMocks  func(r *RepoMock)
		wantPage    int
		wantTotal   int
		wantPages   int
		wantHasPrev bool
		wantHasNext bool
		wantPrev    *int
		wantNext    *int
		wantErr     bool
	}{
		{
			name:   "defaults applied for zero filter",
			filter: models.ProductFilter{},
			setupMocks: func(r *RepoMock) {
				r.On("ListProducts", mock.Anything, models.ProductFilter{Limit: 10, Page: 1}).
					Return(products, 2, nil).Once()
			},
			wantPage:  1,
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name:   "middle page has both neighbours",
			filter: models.ProductFilter{Limit: 2, Page: 2},
			setupMocks: func(r *RepoMock) {
				r.On("ListProducts", mock.Anything, models.ProductFilter{Limit: 2, Page: 2}).
					Return(products, 6, nil).Once()
			},
			wantPage:    2,
			wantTotal:   6,
			wantPages:   3,
			wantHasPrev: true,
			wantHasNext: true,
			wantPrev:    ptr(1),
			wantNext:    ptr(3),
		},
		{
			name:   "empty catalog keeps one page",
			filter: models.ProductFilter{Limit: 10, Page: 1},
			setupMocks: func(r *RepoMock) {
				r.On("ListProducts", mock.Anything, mock.Anything).
					Return([]*models.Product{}, 0, nil).Once()
			},
			wantPage:  1,
			wantTotal: 0,
			wantPages: 1,
		},
		{
			name:   "repo error",
			filter: models.ProductFilter{Limit: 10, Page: 1},
			setupMocks: func(r *RepoMock) {
				r.On("ListProducts", mock.Anything, mock.Anything).
					Return(nil, 0, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.List(context.Background(), tt.filter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantTotal, got.TotalDocs)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantHasPrev, got.HasPrevPage)
			assert.Equal(t, tt.wantHasNext, got.HasNextPage)
			assert.Equal(t, tt.wantPrev, got.PrevPage)
			assert.Equal(t, tt.wantNext, got.NextPage)
			assert.NotNil(t, got.Items)

			repo.AssertExpectations(t)
		})
	}
}

func ptr(v int) *int { return &v }

func TestService_Get(t *testing.T) {
	product := &models.Product{ID: "a", Title: "Чай", Price: 10}

	t.Run("cache hit skips repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, new(NotifierMock), newNoopLogger())

		cache.On("Get", "product:a", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
			ptrPtr := args.Get(1).(**models.Product)
			*ptrPtr = product
		}).Once()

		got, err := svc.Get(context.Background(), "a")
		assert.NoError(t, err)
		assert.Equal(t, product, got)

		repo.AssertNotCalled(t, "GetProduct")
		cache.AssertExpectations(t)
	})

	t.Run("cache miss then repo and set", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, new(NotifierMock), newNoopLogger())

		cache.On("Get", "product:a", mock.Anything).Return(false, nil).Once()
		repo.On("GetProduct", mock.Anything, "a").Return(product, nil).Once()
		cache.On("Set", "product:a", product, time.Hour).Return(nil).Once()

		got, err := svc.Get(context.Background(), "a")
		assert.NoError(t, err)
		assert.Equal(t, product, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls back to repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, new(NotifierMock), newNoopLogger())

		cache.On("Get", "product:a", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetProduct", mock.Anything, "a").Return(product, nil).Once()
		cache.On("Set", "product:a", product, time.Hour).Return(nil).Once()

		got, err := svc.Get(context.Background(), "a")
		assert.NoError(t, err)
		assert.Equal(t, product, got)
	})
}

func TestService_Create(t *testing.T) {
	repo := new(RepoMock)
	notifier := new(NotifierMock)
	svc := New(repo, new(CacheMock), notifier, newNoopLogger())

	req := models.DummyProduct{Title: "Чай", Code: "tea-01", Price: 10, Stock: 5}
	repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Title == "Чай" && p.Code == "tea-01" && p.Price == 10 && p.Stock == 5
	})).Return("new-id", nil).Once()
	notifier.On("CatalogChanged").Once()

	id, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "new-id", id)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	notifier := new(NotifierMock)
	svc := New(repo, cache, notifier, newNoopLogger())

	repo.On("DeleteProduct", mock.Anything, "a").Return(nil).Once()
	cache.On("Invalidate", "product:a").Return(nil).Once()
	notifier.On("CatalogChanged").Once()

	assert.NoError(t, svc.Delete(context.Background(), "a"))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_DecrementStockIfAvailable(t *testing.T) {
	t.Run("success invalidates cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, new(NotifierMock), newNoopLogger())

		repo.On("DecrementStockIfAvailable", mock.Anything, "a", 2).Return(true, nil).Once()
		cache.On("Invalidate", "product:a").Return(nil).Once()

		ok, err := svc.DecrementStockIfAvailable(context.Background(), "a", 2)
		assert.NoError(t, err)
		assert.True(t, ok)

		cache.AssertExpectations(t)
	})

	t.Run("insufficient stock keeps cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, new(NotifierMock), newNoopLogger())

		repo.On("DecrementStockIfAvailable", mock.Anything, "a", 100).Return(false, nil).Once()

		ok, err := svc.DecrementStockIfAvailable(context.Background(), "a", 100)
		assert.NoError(t, err)
		assert.False(t, ok)

		cache.AssertNotCalled(t, "Invalidate")
	})
}
