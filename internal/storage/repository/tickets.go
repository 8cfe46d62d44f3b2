package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// CreateTicket транзакционно сохраняет чек и все его позиции-снимки,
// присваивая уникальный код. Записанный чек никогда не изменяется.
func (s *Storage) CreateTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error) {
	const op = "storage.CreateTicket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ticket.ID = uuid.New().String()
	ticket.Code = uuid.New().String()

	query := `INSERT INTO tickets (id, code, purchaser, amount, purchase_datetime)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING purchase_datetime`
	if err := tx.QueryRowContext(ctx, query,
		ticket.ID, ticket.Code, ticket.Purchaser, ticket.Amount,
		ticket.PurchaseDatetime).Scan(&ticket.PurchaseDatetime); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range ticket.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ticket_items (ticket_id, product_id, title, price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			ticket.ID, item.ProductID, item.Title, item.Price, item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ticket, nil
}

// GetTicket возвращает чек по его ID вместе с позициями.
func (s *Storage) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	const op = "storage.GetTicket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, purchaser, amount, purchase_datetime
			  FROM tickets WHERE id = $1`
	var ticket models.Ticket
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&ticket.ID, &ticket.Code,
		&ticket.Purchaser, &ticket.Amount, &ticket.PurchaseDatetime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.listTicketItems(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ticket.Items = items
	return &ticket, nil
}

// ListTicketsByPurchaser возвращает чеки покупателя в порядке убывания
// времени покупки.
func (s *Storage) ListTicketsByPurchaser(ctx context.Context, email string) ([]*models.Ticket, error) {
	const op = "storage.ListTicketsByPurchaser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, purchaser, amount, purchase_datetime
			  FROM tickets
			  WHERE purchaser = $1
			  ORDER BY purchase_datetime DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.Code, &ticket.Purchaser,
			&ticket.Amount, &ticket.PurchaseDatetime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ticket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, ticket := range result {
		items, err := s.listTicketItems(ctx, ticket.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ticket.Items = items
	}
	return result, nil
}

func (s *Storage) listTicketItems(ctx context.Context, ticketID string) ([]*models.TicketItem, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT product_id, title, price, quantity
		 FROM ticket_items WHERE ticket_id = $1`, ticketID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []*models.TicketItem
	for rows.Next() {
		var item models.TicketItem
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
