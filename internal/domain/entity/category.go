package entity

import "time"

// Category agrupa productos; el nombre es único.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
