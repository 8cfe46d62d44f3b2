// Package reset реализует HTTP-обработчик смены пароля по токену восстановления.
package reset

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
	"github.com/magabrotheeeer/ecommerce-backend/internal/services/passwordreset"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

// Request содержит новый пароль.
type Request struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс смены пароля по токену.
type Service interface {
	Reset(ctx context.Context, token, newPassword string) error
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
// @Summary Сменить пароль по токену
// @Description Списывает одноразовый токен и устанавливает новый пароль.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Токен восстановления"
// @Param request body Request true "Новый пароль"
// @Success 200 {object} response.Response "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пароль совпадает со старым"
// @Failure 404 {object} response.ErrorResponse "Токен недействителен или уже использован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/reset-password/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.reset"

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

	token := chi.URLParam(r, "token")
	if err := h.service.Reset(r.Context(), token, req.Password); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidToken):
			log.Error("invalid or expired reset token")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invalid or expired token"))
		case errors.Is(err, passwordreset.ErrSamePassword):
			log.Error("new password matches the old one")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("new password must differ from the old one"))
		default:
			log.Error("failed to reset password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not reset password"))
		}
		return
	}

	log.Info("password reset completed")
	render.JSON(w, r, response.OK())
}
