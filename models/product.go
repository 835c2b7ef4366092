package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item in the system
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SKU           string          `json:"sku" gorm:"uniqueIndex;not null"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null"`
	Description   *string         `json:"description" gorm:"type:varchar(1000)"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Category      *Category       `json:"category" gorm:"type:varchar(64);index"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	MinStockLevel int             `json:"min_stock_level" gorm:"not null;default:0"`
	Active        bool            `json:"active" gorm:"not null;default:true"`
	Version       int64           `json:"version" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the identifier when the caller left it unset
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeUpdate bumps the row version on every update
func (p *Product) BeforeUpdate(tx *gorm.DB) error {
	p.Version++
	return nil
}

// LowStock reports whether the stock quantity is at or below the minimum level
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// ProductPage is one page of a product listing as returned by the store
type ProductPage struct {
	Products []Product
	Number   int
	Size     int
	Total    int64
}
