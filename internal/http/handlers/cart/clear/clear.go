// Package clear реализует HTTP-обработчик очистки корзины.
package clear

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики очистки корзины.
type Service interface {
	Clear(ctx context.Context, cartID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Очистить корзину
// @Description Удаляет все позиции корзины, сама корзина остаётся.
// @Tags Carts
// @Produce json
// @Param id path string true "ID корзины"
// @Success 200 {object} response.Response "Корзина очищена"
// @Failure 404 {object} response.ErrorResponse "Корзина не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts/{id}/items [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Clear(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("cart not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart not found"))
			return
		}
		log.Error("failed to clear cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear cart"))
		return
	}

	log.Info("cart cleared", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
