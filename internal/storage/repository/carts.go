package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// CreateCart создаёт пустую корзину и возвращает её.
func (s *Storage) CreateCart(ctx context.Context) (*models.Cart, error) {
	const op = "storage.CreateCart"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO carts (id) VALUES ($1)
			  RETURNING id, created_at`
	var cart models.Cart
	err := s.DB.QueryRowContext(ctx, query, uuid.New().String()).
		Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cart.Items = []*models.CartItem{}
	return &cart, nil
}

// GetCart возвращает корзину вместе с её позициями.
func (s *Storage) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	const op = "storage.GetCart"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var cart models.Cart
	var createdAt time.Time
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, created_at FROM carts WHERE id = $1`, cartID).
		Scan(&cart.ID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cart.CreatedAt = createdAt

	rows, err := s.DB.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	cart.Items = []*models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cart.Items = append(cart.Items, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cart, nil
}

// AddCartItem добавляет товар в корзину: новая позиция получает количество 1,
// существующая увеличивается на 1. Корзина должна существовать.
func (s *Storage) AddCartItem(ctx context.Context, cartID, productID string) error {
	const op = "storage.AddCartItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`, cartID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	query := `INSERT INTO cart_items (cart_id, product_id, quantity)
			  VALUES ($1, $2, 1)
			  ON CONFLICT (cart_id, product_id)
			  DO UPDATE SET quantity = cart_items.quantity + 1`
	if _, err := s.DB.ExecContext(ctx, query, cartID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateCartItemQuantity устанавливает количество товара в корзине.
// Отсутствие позиции возвращает ErrItemNotFound.
func (s *Storage) UpdateCartItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	const op = "storage.UpdateCartItemQuantity"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cart_items
			  SET quantity = $3
			  WHERE cart_id = $1 AND product_id = $2`
	result, err := s.DB.ExecContext(ctx, query, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}
	return nil
}

// RemoveCartItem удаляет позицию из корзины.
func (s *Storage) RemoveCartItem(ctx context.Context, cartID, productID string) error {
	const op = "storage.RemoveCartItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`
	result, err := s.DB.ExecContext(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}
	return nil
}

// ClearCart удаляет все позиции корзины, оставляя саму корзину.
func (s *Storage) ClearCart(ctx context.Context, cartID string) error {
	const op = "storage.ClearCart"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`, cartID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReplaceCartItems транзакционно заменяет содержимое корзины на переданный
// набор позиций. Используется оформлением покупки для записи остатка.
func (s *Storage) ReplaceCartItems(ctx context.Context, cartID string, items []*models.CartItem) error {
	const op = "storage.ReplaceCartItems"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)`,
			cartID, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCart полностью удаляет корзину вместе с позициями.
func (s *Storage) DeleteCart(ctx context.Context, cartID string) error {
	const op = "storage.DeleteCart"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
