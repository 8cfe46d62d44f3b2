// Package updateitem реализует HTTP-обработчик изменения количества позиции корзины.
package updateitem

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/services/cart"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

// Request содержит новое количество позиции.
type Request struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// Service описывает интерфейс бизнес-логики изменения позиции корзины.
type Service interface {
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить количество позиции
// @Description Устанавливает точное количество товара в корзине.
// @Tags Carts
// @Accept json
// @Produce json
// @Param id path string true "ID корзины"
// @Param productid path string true "ID товара"
// @Param request body Request true "Новое количество"
// @Success 200 {object} response.Response "Количество обновлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или количество"
// @Failure 404 {object} response.ErrorResponse "Позиция не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /carts/{id}/items/{productid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.updateitem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cartID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productid")

	if err := h.service.SetQuantity(r.Context(), cartID, productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			log.Error("invalid quantity", slog.Int("quantity", req.Quantity))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("quantity must be at least 1"))
		case errors.Is(err, repository.ErrItemNotFound):
			log.Error("cart item not found",
				slog.String("cart", cartID), slog.String("product", productID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart item not found"))
		default:
			log.Error("failed to update item", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update cart item"))
		}
		return
	}

	log.Info("cart item updated",
		slog.String("cart", cartID), slog.String("product", productID),
		slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.OK())
}
