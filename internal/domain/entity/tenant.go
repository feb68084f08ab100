package entity

import "time"

// Tenant representa una organización aislada dentro del sistema multi-tenant.
// Todo dato de negocio (clientes, productos, deals, gastos) cuelga de un tenant.
type Tenant struct {
	ID        string
	Name      string
	Code      string // código corto único, usado en onboarding
	Timezone  string
	Currency  string // moneda por defecto, ej. "KZT"
	IsActive  bool
	CreatedAt time.Time
}
