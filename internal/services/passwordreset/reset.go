// Package passwordreset реализует восстановление пароля: выпуск одноразового
// токена с часовым сроком жизни, публикацию письма в очередь и атомарное
// списание токена при смене пароля.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/password"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/sl"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"

	"github.com/google/uuid"
)

// TokenTTL срок жизни токена восстановления.
const TokenTTL = time.Hour

// ErrSamePassword новый пароль совпадает со старым.
var ErrSamePassword = errors.New("new password must differ from the old one")

// ResetRepository покрывает операции хранилища, нужные восстановлению пароля.
type ResetRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error
	CreateResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) (*models.PasswordReset, error)
	GetResetToken(ctx context.Context, token string) (*models.PasswordReset, error)
	SpendResetToken(ctx context.Context, token string) (string, error)
}

// EmailPublisher кладёт задание на письмо в очередь почтового воркера.
type EmailPublisher interface {
	PublishResetEmail(job models.ResetEmailJob) error
}

// Service реализует сценарии восстановления пароля.
type Service struct {
	repo      ResetRepository
	publisher EmailPublisher
	linkBase  string
	log       *slog.Logger
}

// New создает новый экземпляр Service. linkBase — базовый адрес для ссылки
// восстановления в письме.
func New(repo ResetRepository, publisher EmailPublisher, linkBase string, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		linkBase:  linkBase,
		log:       log,
	}
}

// Forgot запускает восстановление пароля. Всегда завершается успешно,
// независимо от того, зарегистрирован ли email: ответ не раскрывает
// существование учётной записи. Письмо уходит только реальному пользователю.
func (s *Service) Forgot(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.New().String()
	reset, err := s.repo.CreateResetToken(ctx, user.UID, token, time.Now().UTC().Add(TokenTTL))
	if err != nil {
		return err
	}

	job := models.ResetEmailJob{
		Email: user.Email,
		Name:  user.FirstName,
		Token: reset.Token,
		Link:  fmt.Sprintf("%s/api/v1/sessions/reset-password/%s", s.linkBase, reset.Token),
	}
	if err := s.publisher.PublishResetEmail(job); err != nil {
		// Токен уже записан; письмо не ушло, но пользователь может запросить повторно.
		s.log.Error("failed to publish reset email job", sl.Err(err))
		return err
	}

	s.log.Info("password reset token issued", slog.String("user", user.UID))
	return nil
}

// Validate проверяет токен без списания: им пользуется GET-проба ссылки
// восстановления. Токен действителен, пока не использован и не истёк.
func (s *Service) Validate(ctx context.Context, token string) error {
	reset, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		return err
	}
	if reset.Used || !time.Now().UTC().Before(reset.ExpiresAt) {
		return repository.ErrInvalidToken
	}
	return nil
}

// Reset меняет пароль по токену. Совпадение нового пароля со старым
// проверяется до списания, чтобы отказ не сжигал токен и пользователь мог
// повторить попытку по той же ссылке. Само списание атомарно одним запросом,
// поэтому повторное применение уже использованного токена вернёт
// ErrInvalidToken, а не второй сброс пароля.
func (s *Service) Reset(ctx context.Context, token, newPassword string) error {
	reset, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		return err
	}
	if reset.Used || !time.Now().UTC().Before(reset.ExpiresAt) {
		return repository.ErrInvalidToken
	}

	user, err := s.repo.GetUser(ctx, reset.UserUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, newPassword); err == nil {
		return ErrSamePassword
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}

	userUID, err := s.repo.SpendResetToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userUID, hashed); err != nil {
		return err
	}

	s.log.Info("password reset completed", slog.String("user", userUID))
	return nil
}
