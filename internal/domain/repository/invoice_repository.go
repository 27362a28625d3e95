package repository

import (
	"context"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	// GetByID devuelve la factura con compañía, socios, cuenta bancaria y líneas (con impuestos).
	// Retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// Create persiste cabecera, líneas y relación línea-impuesto.
	Create(ctx context.Context, invoice *entity.Invoice) error
}
