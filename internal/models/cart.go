package models

import "time"

// Cart представляет корзину покупателя. Items хранит не более одной позиции
// на каждый товар: повторное добавление увеличивает количество.
type Cart struct {
	ID        string      `json:"id"`
	Items     []*CartItem `json:"products"`
	CreatedAt time.Time   `json:"created_at"`
}

// CartItem позиция корзины: ссылка на товар и количество (не меньше 1).
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CartView корзина с подгруженными данными товаров. Товары подтягиваются
// отдельным batch-запросом на уровне приложения, хранилище join не выполняет.
type CartView struct {
	ID    string          `json:"id"`
	Items []*CartItemView `json:"products"`
}

// CartItemView позиция корзины вместе с текущей карточкой товара.
// Product равен nil, если товар был удалён из каталога.
type CartItemView struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
