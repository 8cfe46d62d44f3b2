// Package purchase реализует HTTP-обработчик оформления покупки корзины.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ecommerce-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	"github.com/magabrotheeeer/ecommerce-backend/internal/services/checkout"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

// Service описывает интерфейс движка оформления покупки.
type Service interface {
	Purchase(ctx context.Context, cartID, purchaser string) (*models.PurchaseResult, error)
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
// @Summary Оформить покупку
// @Description Списывает доступные позиции корзины, формирует чек и возвращает
// @Description остаток корзины вместе с отчётом о недоступных товарах.
// @Tags Carts
// @Produce json
// @Param id path string true "ID корзины"
// @Success 200 {object} models.PurchaseResult "Результат покупки"
// @Failure 400 {object} response.ErrorResponse "Корзина пуста или ни одна позиция недоступна"
// @Failure 404 {object} response.ErrorResponse "Корзина не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cartID := chi.URLParam(r, "id")
	purchaser, _ := r.Context().Value(middlewarectx.Email).(string)

	result, err := h.service.Purchase(r.Context(), cartID, purchaser)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			log.Error("cart is empty", slog.String("cart", cartID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cart is empty"))
		case errors.Is(err, checkout.ErrNothingPurchasable):
			log.Error("no purchasable items", slog.String("cart", cartID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no items could be purchased"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("cart not found", slog.String("cart", cartID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart not found"))
		default:
			log.Error("failed to purchase cart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not complete purchase"))
		}
		return
	}

	log.Info("purchase completed",
		slog.String("cart", cartID),
		slog.String("ticket", result.Ticket.ID),
		slog.Float64("amount", result.Ticket.Amount))
	render.JSON(w, r, response.OKWithData(result))
}
