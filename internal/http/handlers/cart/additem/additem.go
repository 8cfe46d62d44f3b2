// Package additem реализует HTTP-обработчик добавления товара в корзину.
package additem

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

// Service описывает интерфейс бизнес-логики добавления товара в корзину.
type Service interface {
	AddItem(ctx context.Context, cartID, productID string) error
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
// @Summary Добавить товар в корзину
// @Description Добавляет товар в корзину. Повторное добавление увеличивает количество на единицу.
// @Tags Carts
// @Produce json
// @Param id path string true "ID корзины"
// @Param productid path string true "ID товара"
// @Success 200 {object} response.Response "Товар добавлен"
// @Failure 404 {object} response.ErrorResponse "Корзина или товар не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts/{id}/items/{productid} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.additem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cartID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productid")

	if err := h.service.AddItem(r.Context(), cartID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("cart or product not found",
				slog.String("cart", cartID), slog.String("product", productID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart or product not found"))
			return
		}
		log.Error("failed to add item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add item to cart"))
		return
	}

	log.Info("item added to cart",
		slog.String("cart", cartID), slog.String("product", productID))
	render.JSON(w, r, response.OK())
}
