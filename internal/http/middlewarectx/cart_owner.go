package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/response"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// CartOwnerMiddleware пропускает запрос к маршруту с параметром {id} корзины,
// только если корзина принадлежит владельцу токена либо роль — admin.
// Чужая корзина получает HTTP 403 Forbidden до обращения к хранилищу.
func CartOwnerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := chi.URLParam(r, "id")
			role, _ := r.Context().Value(Role).(string)
			ownCart, _ := r.Context().Value(CartUID).(string)

			if role != models.RoleAdmin && cartID != ownCart {
				log.Error("cart access denied",
					slog.String("cart", cartID), slog.String("own_cart", ownCart))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("cart does not belong to you"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
