package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}
func (m *CartRepoMock) ReplaceCartItems(ctx context.Context, cartID string, items []*models.CartItem) error {
	return m.Called(ctx, cartID, items).Error(0)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) Get(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *CatalogMock) DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

type TicketRepoMock struct{ mock.Mock }

func (m *TicketRepoMock) CreateTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestEngine_Purchase_PartialFulfillment(t *testing.T) {
	// Позиция A обеспечена остатком, позиция B нет: чек только по A,
	// B остаётся в корзине с исходным количеством.
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	productA := &models.Product{ID: "a", Title: "Чай", Price: 10, Stock: 5}
	productB := &models.Product{ID: "b", Title: "Кофе", Price: 20, Stock: 1}

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{
		ID: "cart1",
		Items: []*models.CartItem{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 3},
		},
	}, nil).Once()

	catalog.On("Get", mock.Anything, "a").Return(productA, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "a", 2).Return(true, nil).Once()
	catalog.On("Get", mock.Anything, "b").Return(productB, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "b", 3).Return(false, nil).Once()

	tickets.On("CreateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
		return tk.Purchaser == "user@example.com" &&
			tk.Amount == 20 &&
			len(tk.Items) == 1 &&
			tk.Items[0].ProductID == "a" &&
			tk.Items[0].Quantity == 2 &&
			tk.Items[0].Price == 10
	})).Return(&models.Ticket{ID: "t1", Code: "code1", Amount: 20}, nil).Once()

	carts.On("ReplaceCartItems", mock.Anything, "cart1", mock.MatchedBy(func(items []*models.CartItem) bool {
		return len(items) == 1 && items[0].ProductID == "b" && items[0].Quantity == 3
	})).Return(nil).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "t1", result.Ticket.ID)
	assert.Len(t, result.Remainder, 1)
	assert.Equal(t, "b", result.Remainder[0].ProductID)
	assert.Len(t, result.OutOfStock, 1)
	assert.Equal(t, "b", result.OutOfStock[0].ProductID)
	assert.Equal(t, 3, result.OutOfStock[0].Requested)
	assert.Equal(t, 1, result.OutOfStock[0].Available)

	carts.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tickets.AssertExpectations(t)
}

func TestEngine_Purchase_FullFulfillment(t *testing.T) {
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{
		ID:    "cart1",
		Items: []*models.CartItem{{ProductID: "a", Quantity: 2}},
	}, nil).Once()
	catalog.On("Get", mock.Anything, "a").Return(&models.Product{ID: "a", Title: "Чай", Price: 10, Stock: 5}, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "a", 2).Return(true, nil).Once()
	tickets.On("CreateTicket", mock.Anything, mock.Anything).Return(&models.Ticket{ID: "t1", Code: "code1"}, nil).Once()
	carts.On("ReplaceCartItems", mock.Anything, "cart1", mock.MatchedBy(func(items []*models.CartItem) bool {
		return len(items) == 0
	})).Return(nil).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, result.Remainder)
	assert.Empty(t, result.Remainder)
	assert.NotNil(t, result.OutOfStock)
	assert.Empty(t, result.OutOfStock)

	carts.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tickets.AssertExpectations(t)
}

func TestEngine_Purchase_EmptyCart(t *testing.T) {
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{ID: "cart1"}, nil).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)

	carts.AssertExpectations(t)
	tickets.AssertNotCalled(t, "CreateTicket")
}

func TestEngine_Purchase_NothingPurchasable(t *testing.T) {
	// Обе позиции без остатка: чека нет, корзина остаётся нетронутой.
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{
		ID: "cart1",
		Items: []*models.CartItem{
			{ProductID: "a", Quantity: 10},
			{ProductID: "b", Quantity: 5},
		},
	}, nil).Once()
	catalog.On("Get", mock.Anything, "a").Return(&models.Product{ID: "a", Stock: 1}, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "a", 10).Return(false, nil).Once()
	catalog.On("Get", mock.Anything, "b").Return(&models.Product{ID: "b", Stock: 0}, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "b", 5).Return(false, nil).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.ErrorIs(t, err, ErrNothingPurchasable)
	assert.Nil(t, result)

	tickets.AssertNotCalled(t, "CreateTicket")
	carts.AssertNotCalled(t, "ReplaceCartItems")
}

func TestEngine_Purchase_DeletedProductStaysInCart(t *testing.T) {
	// Удалённый из каталога товар попадает в отчёт с нулевой доступностью
	// и остаётся в корзине, остальные позиции выкупаются.
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{
		ID: "cart1",
		Items: []*models.CartItem{
			{ProductID: "gone", Quantity: 1},
			{ProductID: "a", Quantity: 1},
		},
	}, nil).Once()
	catalog.On("Get", mock.Anything, "gone").Return(nil, repository.ErrNotFound).Once()
	catalog.On("Get", mock.Anything, "a").Return(&models.Product{ID: "a", Title: "Чай", Price: 10, Stock: 5}, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "a", 1).Return(true, nil).Once()
	tickets.On("CreateTicket", mock.Anything, mock.Anything).Return(&models.Ticket{ID: "t1", Code: "code1"}, nil).Once()
	carts.On("ReplaceCartItems", mock.Anything, "cart1", mock.MatchedBy(func(items []*models.CartItem) bool {
		return len(items) == 1 && items[0].ProductID == "gone"
	})).Return(nil).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.NoError(t, err)
	assert.Len(t, result.OutOfStock, 1)
	assert.Equal(t, "gone", result.OutOfStock[0].ProductID)
	assert.Equal(t, 0, result.OutOfStock[0].Available)

	carts.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tickets.AssertExpectations(t)
}

func TestEngine_Purchase_TicketError(t *testing.T) {
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "cart1").Return(&models.Cart{
		ID:    "cart1",
		Items: []*models.CartItem{{ProductID: "a", Quantity: 1}},
	}, nil).Once()
	catalog.On("Get", mock.Anything, "a").Return(&models.Product{ID: "a", Price: 10, Stock: 5}, nil).Once()
	catalog.On("DecrementStockIfAvailable", mock.Anything, "a", 1).Return(true, nil).Once()
	tickets.On("CreateTicket", mock.Anything, mock.Anything).Return(nil, errors.New("db error")).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "cart1", "user@example.com")

	assert.Error(t, err)
	assert.Nil(t, result)
	carts.AssertNotCalled(t, "ReplaceCartItems")
}

func TestEngine_Purchase_CartNotFound(t *testing.T) {
	carts := new(CartRepoMock)
	catalog := new(CatalogMock)
	tickets := new(TicketRepoMock)

	carts.On("GetCart", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	engine := New(carts, catalog, tickets, newNoopLogger())
	result, err := engine.Purchase(context.Background(), "missing", "user@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, result)
}
