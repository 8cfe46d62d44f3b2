// Package ticket содержит бизнес-логику чеков покупок. Чеки append-only:
// сервис умеет только создавать и читать их, позиции — снимки данных товара
// на момент покупки, живых ссылок на каталог чтение не разыменовывает.
package ticket

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// TicketRepository определяет методы для работы с чеками в хранилище.
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListTicketsByPurchaser(ctx context.Context, email string) ([]*models.Ticket, error)
}

// Service реализует бизнес-логику работы с чеками.
type Service struct {
	repo TicketRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo TicketRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет чек, присваивая ему уникальный код.
func (s *Service) Create(ctx context.Context, ticket models.Ticket) (*models.Ticket, error) {
	created, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.log.Info("created ticket", slog.String("code", created.Code))
	return created, nil
}

// Get возвращает чек по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Ticket, error) {
	return s.repo.GetTicket(ctx, id)
}

// ListByPurchaser возвращает чеки покупателя, новые первыми.
func (s *Service) ListByPurchaser(ctx context.Context, email string) ([]*models.Ticket, error) {
	tickets, err := s.repo.ListTicketsByPurchaser(ctx, email)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}
