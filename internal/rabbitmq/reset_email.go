package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/ecommerce-backend/internal/models"
)

// ResetEmailPublisher публикует задания на письма восстановления пароля
// в exchange "emails" с ключом маршрутизации password_reset.
type ResetEmailPublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewResetEmailPublisher создает новый ResetEmailPublisher.
func NewResetEmailPublisher(ch *amqp.Channel, exchange string) *ResetEmailPublisher {
	return &ResetEmailPublisher{
		ch:       ch,
		exchange: exchange,
	}
}

// PublishResetEmail кладёт задание в очередь почтового воркера.
func (p *ResetEmailPublisher) PublishResetEmail(job models.ResetEmailJob) error {
	return PublishMessage(p.ch, p.exchange, ResetEmailRoutingKey, job)
}
