package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// TaxRepository consulta impuestos de la compañía.
type TaxRepository interface {
	// FindZeroPercent primer impuesto porcentual al 0% para el uso indicado (sale/purchase).
	// Retorna (nil, nil) si la compañía no tiene ninguno.
	FindZeroPercent(ctx context.Context, companyID, taxUse string) (*entity.Tax, error)
	// FindByPercent primer impuesto porcentual con ese importe. (nil, nil) si no existe.
	FindByPercent(ctx context.Context, companyID, taxUse string, percent decimal.Decimal) (*entity.Tax, error)
}
