package models

import "time"

// StockStatus es el estado de inventario derivado del stock
type StockStatus string

const (
	StatusInStock    StockStatus = "In Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusOutOfStock StockStatus = "Out of Stock"
)

// LowStockThreshold marca el primer valor de stock considerado "In Stock"
const LowStockThreshold = 10

// StatusForStock calcula el estado a partir del stock
func StatusForStock(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product representa un producto en el catálogo.
// El ID se expone como string; el repositorio se encarga de convertirlo
// desde/hacia el identificador nativo de MongoDB.
type Product struct {
	ID        string      `json:"id" bson:"-"`
	Name      string      `json:"name" bson:"name"`
	Category  string      `json:"category" bson:"category"`
	Price     float64     `json:"price" bson:"price"`
	Stock     int         `json:"stock" bson:"stock"`
	MinStock  *int        `json:"minStock,omitempty" bson:"minStock,omitempty"`
	Status    StockStatus `json:"status" bson:"status"`
	Supplier  string      `json:"supplier" bson:"supplier"`
	Image     string      `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Campos del documento que el cliente nunca puede escribir
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldStock     = "stock"
	FieldStatus    = "status"
)
