// Package models содержит доменные структуры интернет-магазина:
// товары каталога, корзины, чеки покупок и пользователей.
package models

import "time"

// Product представляет товар каталога.
// Поле Code — уникальный бизнес-ключ товара, Stock — остаток на складе.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyProduct используется для приёма данных товара из JSON-запроса,
// прежде чем конвертировать их в Product.
type DummyProduct struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Available   bool     `json:"available"`
	Thumbnails  []string `json:"thumbnails"`
}

// ProductPage результат постраничного запроса каталога.
// PrevPage и NextPage равны nil на границах диапазона.
type ProductPage struct {
	Items       []*Product `json:"payload"`
	Page        int        `json:"page"`
	TotalPages  int        `json:"total_pages"`
	TotalDocs   int        `json:"total_docs"`
	HasPrevPage bool       `json:"has_prev_page"`
	HasNextPage bool       `json:"has_next_page"`
	PrevPage    *int       `json:"prev_page"`
	NextPage    *int       `json:"next_page"`
}

// ProductFilter параметры выборки каталога: limit и page для пагинации,
// Sort — сортировка по цене ("asc" или "desc"), Query — фильтр по категории
// либо по признаку доступности (литерал "true").
type ProductFilter struct {
	Limit int
	Page  int
	Sort  string
	Query string
}
