package models

import "time"

// User представляет зарегистрированного пользователя магазина.
// Email хранится в нижнем регистре и уникален. PasswordHash — bcrypt-хэш,
// пароль в открытом виде нигде не хранится.
type User struct {
	UID          string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CartUID      string    `json:"cart"`
	CreatedAt    time.Time `json:"created_at"`
}

// Роли пользователей. Роль определяет исход авторизации во всей системе.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DummyUser данные регистрации из JSON-запроса.
type DummyUser struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"required,gte=0,lte=120"`
	Password  string `json:"password" validate:"required,min=6"`
}
