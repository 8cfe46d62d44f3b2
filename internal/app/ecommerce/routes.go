// Package ecommerce собирает приложение магазина и его маршруты.
package ecommerce

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	cartadditem "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/additem"
	cartclear "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/clear"
	cartcreate "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/create"
	cartpurchase "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/purchase"
	cartread "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/read"
	cartremove "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/remove"
	cartremoveitem "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/removeitem"
	cartupdateitem "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/cart/updateitem"
	productcreate "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/product/update"
	sessioncurrent "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/current"
	sessionforgot "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/forgot"
	sessionlogin "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/login"
	sessionregister "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/register"
	sessionreset "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/reset"
	sessionresetvalidate "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/session/resetvalidate"
	ticketlist "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/ticket/list"
	ticketread "github.com/magabrotheeeer/ecommerce-backend/internal/http/handlers/ticket/read"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/realtime"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	authservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/auth"
	cartservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/catalog"
	checkoutservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/checkout"
	resetservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/passwordreset"
	ticketservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/ticket"
)

// Services содержит сервисы, которыми пользуются маршруты приложения.
type Services struct {
	Catalog  *catalogservice.Service
	Cart     *cartservice.Service
	Checkout *checkoutservice.Engine
	Ticket   *ticketservice.Service
	Auth     *authservice.Service
	Reset    *resetservice.Service
	Feed     *realtime.Hub
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/products", productlist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/products/feed", s.Feed.ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, s.Catalog).ServeHTTP)

		r.Post("/sessions/register", sessionregister.New(logger, s.Auth).ServeHTTP)
		r.Post("/sessions/login", sessionlogin.New(logger, s.Auth).ServeHTTP)
		r.Post("/sessions/forgot-password", sessionforgot.New(logger, s.Reset).ServeHTTP)
		r.Get("/sessions/reset-password/{token}", sessionresetvalidate.New(logger, s.Reset).ServeHTTP)
		r.Post("/sessions/reset-password/{token}", sessionreset.New(logger, s.Reset).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/sessions/current", sessioncurrent.New(logger, s.Auth).ServeHTTP)

			// Изменение каталога доступно только администратору
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Post("/products", productcreate.New(logger, s.Catalog).ServeHTTP)
				r.Put("/products/{id}", productupdate.New(logger, s.Catalog).ServeHTTP)
				r.Delete("/products/{id}", productremove.New(logger, s.Catalog).ServeHTTP)
				r.Delete("/carts/{id}", cartremove.New(logger, s.Cart).ServeHTTP)
			})

			r.Post("/carts", cartcreate.New(logger, s.Cart).ServeHTTP)

			// Работа с содержимым корзины требует владения ею
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CartOwnerMiddleware(logger))
				r.Get("/carts/{id}", cartread.New(logger, s.Cart).ServeHTTP)
				r.Post("/carts/{id}/items/{productid}", cartadditem.New(logger, s.Cart).ServeHTTP)
				r.Put("/carts/{id}/items/{productid}", cartupdateitem.New(logger, s.Cart).ServeHTTP)
				r.Delete("/carts/{id}/items/{productid}", cartremoveitem.New(logger, s.Cart).ServeHTTP)
				r.Delete("/carts/{id}/items", cartclear.New(logger, s.Cart).ServeHTTP)
				r.Post("/carts/{id}/purchase", cartpurchase.New(logger, s.Checkout).ServeHTTP)
			})

			r.Get("/tickets", ticketlist.New(logger, s.Ticket).ServeHTTP)
			r.Get("/tickets/{id}", ticketread.New(logger, s.Ticket).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
