package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в exchange "emails".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очередь заданий на письма восстановления пароля.
const (
	ResetEmailQueue      = "password_reset_emails"
	ResetEmailRoutingKey = "password_reset"
)

// GetEmailQueues возвращает очереди почтового воркера.
func GetEmailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ResetEmailQueue, RoutingKey: ResetEmailRoutingKey},
	}
}
