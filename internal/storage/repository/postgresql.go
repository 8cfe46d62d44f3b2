// Package repository реализует хранилище данных интернет-магазина на основе
// PostgreSQL: товары каталога, корзины, чеки покупок, пользователи и токены
// восстановления пароля.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Обработчики сопоставляют их с HTTP-статусами
// через errors.Is.
var (
	// ErrNotFound запись с указанным идентификатором не существует.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCode товар с таким бизнес-кодом уже существует.
	ErrDuplicateCode = errors.New("product code already exists")
	// ErrEmailTaken пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrItemNotFound в корзине нет позиции с указанным товаром.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrInvalidToken токен восстановления не существует, истёк или уже использован.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с каталогом, корзинами, чеками и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'products'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table products missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation распознаёт нарушение уникального ограничения (код 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
