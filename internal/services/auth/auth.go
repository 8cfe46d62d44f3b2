// Package auth содержит логику бизнес-уровня для регистрации, входа
// и проверки JWT токенов покупателей.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/password"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// ErrInvalidCredentials пара email/пароль не подошла. Текст одинаков для
// несуществующего email и неверного пароля.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CartCreator создаёт пустую корзину для нового пользователя. DeleteCart
// откатывает её, если вставка пользователя не удалась.
type CartCreator interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID string) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	carts    CartCreator
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, carts CartCreator, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		carts:    carts,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя: email приводится к нижнему регистру,
// пароль хэшируется, роль по умолчанию "user", к учётной записи привязывается
// новая пустая корзина. Возвращает UID созданного пользователя.
func (s *Service) Register(ctx context.Context, req models.DummyUser) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	cart, err := s.carts.CreateCart(ctx)
	if err != nil {
		return "", err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Age:          req.Age,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		CartUID:      cart.ID,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		// Корзина создаётся до пользователя из-за внешнего ключа cart_uid,
		// при конфликте email её нужно убрать, чтобы не копить сирот.
		_ = s.carts.DeleteCart(ctx, cart.ID)
		return "", err
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выпускает JWT с email, ролью
// и ссылками на пользователя и его корзину.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID, user.CartUID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// CurrentUser возвращает профиль пользователя без чувствительных полей:
// хэш пароля наружу не отдаётся.
func (s *Service) CurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
