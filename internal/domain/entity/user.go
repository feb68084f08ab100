package entity

import "time"

// Roles de usuario soportados.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User representa un usuario de la aplicación, ligado a un tenant.
type User struct {
	ID           string
	TenantID     string
	Email        string
	FullName     string
	PasswordHash string
	Role         string // admin | manager | staff
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
