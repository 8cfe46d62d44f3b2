// Package removeitem реализует HTTP-обработчик удаления позиции из корзины.
package removeitem

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

// Service описывает интерфейс бизнес-логики удаления позиции корзины.
type Service interface {
	RemoveItem(ctx context.Context, cartID, productID string) error
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
// @Summary Удалить позицию из корзины
// @Description Удаляет позицию целиком независимо от количества.
// @Tags Carts
// @Produce json
// @Param id path string true "ID корзины"
// @Param productid path string true "ID товара"
// @Success 200 {object} response.Response "Позиция удалена"
// @Failure 404 {object} response.ErrorResponse "Позиция не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts/{id}/items/{productid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.removeitem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cartID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productid")

	if err := h.service.RemoveItem(r.Context(), cartID, productID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			log.Error("cart item not found",
				slog.String("cart", cartID), slog.String("product", productID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart item not found"))
			return
		}
		log.Error("failed to remove item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove cart item"))
		return
	}

	log.Info("cart item removed",
		slog.String("cart", cartID), slog.String("product", productID))
	render.JSON(w, r, response.OK())
}
