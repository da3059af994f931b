package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleComptable = "comptable"
	RoleVendeur   = "vendeur"
)

// ValidRoles roles aceptados al crear usuarios.
var ValidRoles = map[string]bool{RoleAdmin: true, RoleComptable: true, RoleVendeur: true}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
