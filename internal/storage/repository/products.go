package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// CreateProduct вставляет новый товар и возвращает его ID.
// Нарушение уникальности поля code возвращает ErrDuplicateCode.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (string, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	thumbnails, err := json.Marshal(product.Thumbnails)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO products (id, title, description, code, price, stock,
			      category, available, thumbnails)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err = s.DB.QueryRowContext(ctx, query,
		uuid.New().String(), product.Title, product.Description, product.Code,
		product.Price, product.Stock, product.Category, product.Available,
		thumbnails).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateCode)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProduct возвращает товар по его ID.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, code, price, stock, category,
			      available, thumbnails, created_at
			  FROM products WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	item, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListProducts возвращает страницу каталога и общее число записей, подходящих
// под фильтр. Фильтр сравнивает query с категорией либо с признаком доступности,
// производным от литерала "true". Сортировка допустима только по цене.
func (s *Storage) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := ""
	args := []any{}
	if filter.Query != "" {
		where = `WHERE category = $1 OR available = $2`
		args = append(args, filter.Query, filter.Query == "true")
	}

	countQuery := strings.TrimSpace(`SELECT COUNT(*) FROM products ` + where)
	var total int
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// id в конце сортировки делает порядок детерминированным: при равных
	// ценах или created_at страницы LIMIT/OFFSET не пересекаются и без дыр.
	order := "ORDER BY created_at, id"
	switch filter.Sort {
	case "asc":
		order = "ORDER BY price ASC, id"
	case "desc":
		order = "ORDER BY price DESC, id"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT id, title, description, code, price, stock, category,
			      available, thumbnails, created_at
			  FROM products %s %s
			  LIMIT $%d OFFSET $%d`, where, order, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// GetProductsByIDs возвращает товары по набору идентификаторов.
// Используется для прикладного join-а корзин и чеков с каталогом.
func (s *Storage) GetProductsByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	const op = "storage.GetProductsByIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(ids) == 0 {
		return map[string]*models.Product{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, title, description, code, price, stock, category,
			      available, thumbnails, created_at
			  FROM products WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]*models.Product, len(ids))
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[item.ID] = item
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct обновляет данные товара по его ID.
func (s *Storage) UpdateProduct(ctx context.Context, id string, product models.Product) error {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	thumbnails, err := json.Marshal(product.Thumbnails)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE products
			  SET title = $1, description = $2, code = $3, price = $4, stock = $5,
			      category = $6, available = $7, thumbnails = $8
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		product.Title, product.Description, product.Code, product.Price,
		product.Stock, product.Category, product.Available, thumbnails, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicateCode)
		}
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

// DeleteProduct удаляет товар по его ID. Чек хранит снимок данных товара,
// поэтому удаление не ломает исторические покупки.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage.DeleteProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
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

// DecrementStockIfAvailable атомарно списывает остаток товара, только если его
// хватает на запрошенное количество. Возвращает true при успешном списании.
// Параллельные оформления одного товара сериализуются этим запросом:
// остаток никогда не уходит в минус.
func (s *Storage) DecrementStockIfAvailable(ctx context.Context, id string, quantity int) (bool, error) {
	const op = "storage.DecrementStockIfAvailable"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET stock = stock - $2
			  WHERE id = $1 AND stock >= $2`
	result, err := s.DB.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected == 1, nil
}

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*models.Product, error) {
	var item models.Product
	var thumbnails []byte
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Code,
		&item.Price, &item.Stock, &item.Category, &item.Available,
		&thumbnails, &item.CreatedAt); err != nil {
		return nil, err
	}
	if len(thumbnails) > 0 {
		if err := json.Unmarshal(thumbnails, &item.Thumbnails); err != nil {
			return nil, err
		}
	}
	return &item, nil
}
