// Package create реализует HTTP-обработчик создания новой корзины.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики создания корзины.
type Service interface {
	Create(ctx context.Context) (*models.Cart, error)
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
// @Summary Создать корзину
// @Description Создаёт новую пустую корзину и возвращает её идентификатор.
// @Tags Carts
// @Produce json
// @Success 200 {object} map[string]any "Корзина создана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cart, err := h.service.Create(r.Context())
	if err != nil {
		log.Error("failed to create cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create cart"))
		return
	}

	log.Info("cart created", slog.String("id", cart.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": cart.ID,
	}))
}
