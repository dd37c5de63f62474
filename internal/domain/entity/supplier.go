package entity

import "time"

// Supplier representa un proveedor de mercancía.
type Supplier struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	LeadTimeDays *int // nil = usar el lead time por defecto del asesor de reposición
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
