package entity

import "time"

// Tipos de categoría.
const (
	CategoryTypeRawMaterial = "RAW_MATERIAL"
	CategoryTypeProduct     = "PRODUCT"
)

// Category agrupa productos (jerárquica opcional). Las fusiones entre productos
// distintos suelen darse dentro de una misma categoría.
type Category struct {
	ID        string
	ParentID  string // vacío si es raíz
	Name      string
	Type      string
	Color     string
	CreatedAt time.Time
}
