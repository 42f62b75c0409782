package entity

import (
	"strings"
	"time"
)

// Role rol de un usuario de la plataforma.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
	RoleBuyer    Role = "buyer"
)

// Roles lista cerrada de roles, en orden estable.
var Roles = []Role{RoleAdmin, RoleSupplier, RoleBuyer}

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupplier, RoleBuyer:
		return true
	}
	return false
}

// User representa un usuario de la plataforma (comprador, proveedor o administrador).
// Tras la creación solo cambian Active y PasswordHash.
type User struct {
	ID            string
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	CompanyName   string
	ContactPerson string
	Phone         string
	Role          Role
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeEmail la identidad se compara sin mayúsculas ni espacios.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
