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

// CreateResetToken сохраняет новый токен восстановления пароля и возвращает его.
func (s *Storage) CreateResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	const op = "storage.CreateResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	reset := models.PasswordReset{
		ID:        uuid.New().String(),
		UserUID:   userUID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	query := `INSERT INTO password_resets (id, user_uid, token, expires_at, used)
			  VALUES ($1, $2, $3, $4, false)`
	if _, err := s.DB.ExecContext(ctx, query,
		reset.ID, reset.UserUID, reset.Token, reset.ExpiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &reset, nil
}

// GetResetToken возвращает запись токена без его списания.
// Используется для предварительной проверки ссылки восстановления.
func (s *Storage) GetResetToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	const op = "storage.GetResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, token, expires_at, used
			  FROM password_resets
			  WHERE token = $1`
	var reset models.PasswordReset
	err := s.DB.QueryRowContext(ctx, query, token).Scan(&reset.ID, &reset.UserUID,
		&reset.Token, &reset.ExpiresAt, &reset.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &reset, nil
}

// SpendResetToken атомарно проверяет и списывает токен одним запросом:
// повторное списание того же токена вернёт ErrInvalidToken, двойной сброс
// пароля по одному токену невозможен. Возвращает UID владельца токена.
func (s *Storage) SpendResetToken(ctx context.Context, token string) (string, error) {
	const op = "storage.SpendResetToken"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE password_resets
			  SET used = true
			  WHERE token = $1 AND used = false AND expires_at > now()
			  RETURNING user_uid`
	var userUID string
	err := s.DB.QueryRowContext(ctx, query, token).Scan(&userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
