package models

import "time"

// Ticket неизменяемый чек завершённой покупки. Code — уникальный
// человекочитаемый код, Purchaser — email покупателя.
// После создания чек никогда не обновляется и не удаляется.
type Ticket struct {
	ID               string        `json:"id"`
	Code             string        `json:"code"`
	Purchaser        string        `json:"purchaser"`
	Amount           float64       `json:"amount"`
	PurchaseDatetime time.Time     `json:"purchase_datetime"`
	Items            []*TicketItem `json:"products"`
}

// TicketItem позиция чека. Title и Price — снимок значений товара на момент
// покупки: последующие изменения каталога на чек не влияют.
type TicketItem struct {
	ProductID string  `json:"product"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OutOfStockItem запись отчёта о недоступных позициях при оформлении покупки.
type OutOfStockItem struct {
	ProductID string `json:"product"`
	Title     string `json:"title,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// PurchaseResult итог оформления покупки: чек по выкупленным позициям,
// остаток корзины и отчёт о нехватке остатков. Частичное исполнение —
// нормальный исход, а не ошибка.
type PurchaseResult struct {
	Ticket     *Ticket           `json:"ticket"`
	Remainder  []*CartItem       `json:"remainder"`
	OutOfStock []*OutOfStockItem `json:"out_of_stock"`
}
