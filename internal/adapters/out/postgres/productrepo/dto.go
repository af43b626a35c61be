// Package productrepo persists products, the stock side of the inventory ledger.
package productrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	VendorID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Stock     int             `gorm:"not null;check:stock >= 0"`
	UpdatedAt time.Time       `gorm:"not null"`
	Version   int             `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID().Value(),
		Name:     p.Name(),
		VendorID: p.VendorID().Value(),
		Price:    p.Price().Amount(),
		Stock:    p.Stock(),
		Version:  p.Version(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromGoogle(dto.VendorID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	return product.RestoreProduct(id, dto.Name, vendorID, price, dto.Stock, dto.Version)
}
