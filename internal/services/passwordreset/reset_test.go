package passwordreset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/password"
	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	return m.Called(ctx, userUID, passwordHash).Error(0)
}
func (m *RepoMock) CreateResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	args := m.Called(ctx, userUID, token, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordReset), args.Error(1)
}
func (m *RepoMock) GetResetToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordReset), args.Error(1)
}
func (m *RepoMock) SpendResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishResetEmail(job models.ResetEmailJob) error {
	return m.Called(job).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Forgot(t *testing.T) {
	t.Run("issues token and publishes email", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)
		svc := New(repo, publisher, "https://shop.example.com", newNoopLogger())

		user := &models.User{UID: "uid1", Email: "ivan@example.com", FirstName: "Иван"}
		repo.On("GetUserByEmail", mock.Anything, "ivan@example.com").Return(user, nil).Once()
		repo.On("CreateResetToken", mock.Anything, "uid1", mock.Anything, mock.MatchedBy(func(exp time.Time) bool {
			return time.Until(exp) > 55*time.Minute && time.Until(exp) <= time.Hour
		})).Return(&models.PasswordReset{Token: "tok123", UserUID: "uid1"}, nil).Once()
		publisher.On("PublishResetEmail", mock.MatchedBy(func(job models.ResetEmailJob) bool {
			return job.Email == "ivan@example.com" &&
				job.Token == "tok123" &&
				job.Link == "https://shop.example.com/api/v1/sessions/reset-password/tok123"
		})).Return(nil).Once()

		assert.NoError(t, svc.Forgot(context.Background(), " Ivan@Example.com "))

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)
		svc := New(repo, publisher, "https://shop.example.com", newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrNotFound).Once()

		assert.NoError(t, svc.Forgot(context.Background(), "ghost@example.com"))

		repo.AssertNotCalled(t, "CreateResetToken")
		publisher.AssertNotCalled(t, "PublishResetEmail")
	})

	t.Run("publish failure surfaces error", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)
		svc := New(repo, publisher, "https://shop.example.com", newNoopLogger())

		user := &models.User{UID: "uid1", Email: "ivan@example.com"}
		repo.On("GetUserByEmail", mock.Anything, "ivan@example.com").Return(user, nil).Once()
		repo.On("CreateResetToken", mock.Anything, "uid1", mock.Anything, mock.Anything).
			Return(&models.PasswordReset{Token: "tok123"}, nil).Once()
		publisher.On("PublishResetEmail", mock.Anything).Return(errors.New("broker down")).Once()

		assert.Error(t, svc.Forgot(context.Background(), "ivan@example.com"))
	})
}

func TestService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reset   *models.PasswordReset
		repoErr error
		wantErr error
	}{
		{
			name:  "valid token",
			reset: &models.PasswordReset{Token: "tok", ExpiresAt: time.Now().UTC().Add(30 * time.Minute)},
		},
		{
			name:    "spent token",
			reset:   &models.PasswordReset{Token: "tok", Used: true, ExpiresAt: time.Now().UTC().Add(30 * time.Minute)},
			wantErr: repository.ErrInvalidToken,
		},
		{
			name:    "expired token",
			reset:   &models.PasswordReset{Token: "tok", ExpiresAt: time.Now().UTC().Add(-time.Minute)},
			wantErr: repository.ErrInvalidToken,
		},
		{
			name:    "unknown token",
			repoErr: repository.ErrInvalidToken,
			wantErr: repository.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

			repo.On("GetResetToken", mock.Anything, "tok").Return(tt.reset, tt.repoErr).Once()

			err := svc.Validate(context.Background(), "tok")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Reset(t *testing.T) {
	oldHash, err := password.GetHash("old-secret")
	assert.NoError(t, err)

	liveReset := &models.PasswordReset{
		Token:     "tok",
		UserUID:   "uid1",
		ExpiresAt: time.Now().UTC().Add(30 * time.Minute),
	}

	t.Run("success updates hash", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

		repo.On("GetResetToken", mock.Anything, "tok").Return(liveReset, nil).Once()
		repo.On("GetUser", mock.Anything, "uid1").Return(&models.User{UID: "uid1", PasswordHash: oldHash}, nil).Once()
		repo.On("SpendResetToken", mock.Anything, "tok").Return("uid1", nil).Once()
		repo.On("UpdatePasswordHash", mock.Anything, "uid1", mock.MatchedBy(func(hash string) bool {
			return password.CompareHash(hash, "new-secret") == nil
		})).Return(nil).Once()

		assert.NoError(t, svc.Reset(context.Background(), "tok", "new-secret"))
		repo.AssertExpectations(t)
	})

	t.Run("same password rejected without spending token", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

		repo.On("GetResetToken", mock.Anything, "tok").Return(liveReset, nil).Once()
		repo.On("GetUser", mock.Anything, "uid1").Return(&models.User{UID: "uid1", PasswordHash: oldHash}, nil).Once()

		err := svc.Reset(context.Background(), "tok", "old-secret")
		assert.ErrorIs(t, err, ErrSamePassword)

		// Токен остаётся живым, пользователь повторяет попытку по той же ссылке.
		repo.AssertNotCalled(t, "SpendResetToken")
		repo.AssertNotCalled(t, "UpdatePasswordHash")
	})

	t.Run("spent token rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

		repo.On("GetResetToken", mock.Anything, "tok").
			Return(&models.PasswordReset{Token: "tok", UserUID: "uid1", Used: true,
				ExpiresAt: time.Now().UTC().Add(30 * time.Minute)}, nil).Once()

		err := svc.Reset(context.Background(), "tok", "new-secret")
		assert.ErrorIs(t, err, repository.ErrInvalidToken)

		repo.AssertNotCalled(t, "GetUser")
		repo.AssertNotCalled(t, "SpendResetToken")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

		repo.On("GetResetToken", mock.Anything, "tok").
			Return(&models.PasswordReset{Token: "tok", UserUID: "uid1",
				ExpiresAt: time.Now().UTC().Add(-time.Minute)}, nil).Once()

		err := svc.Reset(context.Background(), "tok", "new-secret")
		assert.ErrorIs(t, err, repository.ErrInvalidToken)

		repo.AssertNotCalled(t, "SpendResetToken")
	})

	t.Run("race loser gets invalid token", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), "https://shop.example.com", newNoopLogger())

		repo.On("GetResetToken", mock.Anything, "tok").Return(liveReset, nil).Once()
		repo.On("GetUser", mock.Anything, "uid1").Return(&models.User{UID: "uid1", PasswordHash: oldHash}, nil).Once()
		repo.On("SpendResetToken", mock.Anything, "tok").Return("", repository.ErrInvalidToken).Once()

		err := svc.Reset(context.Background(), "tok", "new-secret")
		assert.ErrorIs(t, err, repository.ErrInvalidToken)

		repo.AssertNotCalled(t, "UpdatePasswordHash")
	})
}
