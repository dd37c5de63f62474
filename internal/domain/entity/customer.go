package entity

import "time"

// Customer representa un cliente del punto de venta (CRM).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Document  string // cédula o NIT
	CreatedAt time.Time
	UpdatedAt time.Time
}
