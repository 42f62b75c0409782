// Package access contiene la tabla estática de permisos (rol × operación).
// Es una función pura: no consulta persistencia ni depende del transporte.
// Las reglas de propiedad (RFQ propia, producto propio) las aplica el motor de flujo.
package access

import (
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Operation operación protegida de la API.
type Operation string

// Operaciones del flujo RFQ → Quote → Order y del catálogo.
const (
	OpCreateRFQ      Operation = "createRFQ"
	OpSubmitQuote    Operation = "submitQuote"
	OpCreateOrder    Operation = "createOrder"
	OpListRFQs       Operation = "listRFQs"
	OpListOrders     Operation = "listOrders"
	OpListQuotes     Operation = "listQuotes"
	OpViewOrder      Operation = "viewOrder"
	OpViewDashboard  Operation = "viewDashboard"
	OpCreateCategory Operation = "createCategory"
	OpCreateProduct  Operation = "createProduct"
	OpListMyProducts Operation = "listMyProducts"
	OpManageUsers    Operation = "manageUsers"
)

// Scope alcance de una operación de lectura para un rol.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn        // solo entidades propias
	ScopeAll        // todas
)

type grant struct {
	admin, supplier, buyer Scope
}

// table matriz fija. Las operaciones de escritura usan ScopeOwn como "permitido".
var table = map[Operation]grant{
	OpCreateRFQ:      {admin: ScopeNone, supplier: ScopeNone, buyer: ScopeOwn},
	OpSubmitQuote:    {admin: ScopeNone, supplier: ScopeOwn, buyer: ScopeNone},
	OpCreateOrder:    {admin: ScopeNone, supplier: ScopeNone, buyer: ScopeOwn},
	OpListRFQs:       {admin: ScopeAll, supplier: ScopeOwn, buyer: ScopeOwn},
	OpListOrders:     {admin: ScopeAll, supplier: ScopeOwn, buyer: ScopeOwn},
	OpListQuotes:     {admin: ScopeAll, supplier: ScopeOwn, buyer: ScopeOwn},
	OpViewOrder:      {admin: ScopeAll, supplier: ScopeOwn, buyer: ScopeOwn},
	OpViewDashboard:  {admin: ScopeAll, supplier: ScopeOwn, buyer: ScopeOwn},
	OpCreateCategory: {admin: ScopeAll, supplier: ScopeNone, buyer: ScopeNone},
	OpCreateProduct:  {admin: ScopeNone, supplier: ScopeOwn, buyer: ScopeNone},
	OpListMyProducts: {admin: ScopeNone, supplier: ScopeOwn, buyer: ScopeNone},
	OpManageUsers:    {admin: ScopeAll, supplier: ScopeNone, buyer: ScopeNone},
}

// Operations devuelve todas las operaciones registradas.
func Operations() []Operation {
	ops := make([]Operation, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	return ops
}

// ScopeFor alcance de role sobre op. Operación o rol desconocidos => ScopeNone.
func ScopeFor(role entity.Role, op Operation) Scope {
	g, ok := table[op]
	if !ok {
		return ScopeNone
	}
	switch role {
	case entity.RoleAdmin:
		return g.admin
	case entity.RoleSupplier:
		return g.supplier
	case entity.RoleBuyer:
		return g.buyer
	}
	return ScopeNone
}

// IsAllowed decide si role puede ejecutar op.
func IsAllowed(role entity.Role, op Operation) bool {
	return ScopeFor(role, op) != ScopeNone
}

// Authorize devuelve domain.ErrForbidden envuelto si user no puede ejecutar op.
func Authorize(user *entity.User, op Operation) error {
	if user == nil {
		return domain.ErrInvalidToken
	}
	if !IsAllowed(user.Role, op) {
		return fmt.Errorf("%w: rol %s no puede ejecutar %s", domain.ErrForbidden, user.Role, op)
	}
	return nil
}
