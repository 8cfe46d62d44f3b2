package models

import "time"

// PasswordReset одноразовый токен восстановления пароля.
// Токен действителен, пока не использован и не истёк срок его жизни;
// проверка и списание выполняются атомарно одним запросом к хранилищу.
type PasswordReset struct {
	ID        string    `json:"id"`
	UserUID   string    `json:"user_uid"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// ResetEmailJob сообщение очереди password_reset_emails для сервиса отправки писем.
type ResetEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
	Link  string `json:"link"`
}
