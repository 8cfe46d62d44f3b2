// Package realtime реализует канал живых обновлений каталога поверх
// Server-Sent Events. При каждом добавлении или удалении товара все
// подключённые наблюдатели получают свежую первую страницу каталога
// целиком, а не дельту.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// PageSource выдаёт страницу каталога для рассылки.
type PageSource interface {
	List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)
}

// Hub хранит подписчиков SSE и рассылает им обновления каталога.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
	source      PageSource
	pageLimit   int
	log         *slog.Logger
}

// NewHub создает новый Hub. Источник страницы задаётся позже через SetSource:
// сервис каталога и hub ссылаются друг на друга.
func NewHub(pageLimit int, log *slog.Logger) *Hub {
	if pageLimit < 1 {
		pageLimit = 10
	}
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
		pageLimit:   pageLimit,
		log:         log,
	}
}

// SetSource задаёт источник страницы каталога.
func (h *Hub) SetSource(source PageSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
}

// CatalogChanged реализует catalog.Notifier: загружает свежую первую страницу
// и рассылает её всем подписчикам. Рассылка идёт в отдельной горутине,
// мутация каталога её не ждёт.
func (h *Hub) CatalogChanged() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := h.snapshot(ctx)
		if err != nil {
			h.log.Error("failed to build catalog snapshot", sl.Err(err))
			return
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		for ch := range h.subscribers {
			select {
			case ch <- payload:
			default:
				// Подписчик не выбирает события: пропускаем, следующая рассылка его догонит.
			}
		}
	}()
}

// ServeHTTP обслуживает подключение наблюдателя: отдаёт текущую страницу
// немедленно и далее транслирует каждую рассылку до закрытия соединения.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	if payload, err := h.snapshot(r.Context()); err == nil {
		writeEvent(w, payload)
		flusher.Flush()
	}

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Hub) subscribe() chan []byte {
	ch := make(chan []byte, 4)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, ch)
}

func (h *Hub) snapshot(ctx context.Context) ([]byte, error) {
	h.mu.Lock()
	source := h.source
	h.mu.Unlock()

	page, err := source.List(ctx, models.ProductFilter{Limit: h.pageLimit, Page: 1})
	if err != nil {
		return nil, err
	}
	return json.Marshal(page)
}

func writeEvent(w http.ResponseWriter, payload []byte) {
	_, _ = w.Write([]byte("event: products\ndata: "))
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte("\n\n"))
}
