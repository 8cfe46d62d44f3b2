// Package resetvalidate реализует HTTP-обработчик проверки токена восстановления.
package resetvalidate

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

// Service описывает интерфейс проверки токена восстановления.
type Service interface {
	Validate(ctx context.Context, token string) error
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
// @Summary Проверить токен восстановления
// @Description Проверяет токен из ссылки письма без его списания.
// @Tags Sessions
// @Produce json
// @Param token path string true "Токен восстановления"
// @Success 200 {object} response.Response "Токен действителен"
// @Failure 404 {object} response.ErrorResponse "Токен недействителен или истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/reset-password/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.resetvalidate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if err := h.service.Validate(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrInvalidToken) {
			log.Error("invalid or expired reset token")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invalid or expired token"))
			return
		}
		log.Error("failed to validate reset token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not validate token"))
		return
	}

	render.JSON(w, r, response.OK())
}
