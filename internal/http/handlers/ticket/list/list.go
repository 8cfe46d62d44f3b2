// Package list реализует HTTP-обработчик списка чеков текущего покупателя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ecommerce-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка чеков.
type Service interface {
	ListByPurchaser(ctx context.Context, email string) ([]*models.Ticket, error)
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
// @Summary Список чеков
// @Description Возвращает чеки текущего покупателя, новые первыми. Администратор может запросить чеки любого покупателя через ?email=.
// @Tags Tickets
// @Produce json
// @Param email query string false "Email покупателя (только для администратора)"
// @Success 200 {array} models.Ticket "Чеки покупателя"
// @Failure 401 {object} response.ErrorResponse "Нет или неверный токен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tickets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ticket.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("missing email in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	// Чужие чеки доступны только администратору
	if requested := r.URL.Query().Get("email"); requested != "" && requested != email {
		role, _ := r.Context().Value(middlewarectx.Role).(string)
		if role != models.RoleAdmin {
			log.Warn("attempt to list foreign tickets", slog.String("requested", requested))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
			return
		}
		email = requested
	}

	tickets, err := h.service.ListByPurchaser(r.Context(), email)
	if err != nil {
		log.Error("failed to list tickets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tickets"))
		return
	}

	render.JSON(w, r, response.OKWithData(tickets))
}
