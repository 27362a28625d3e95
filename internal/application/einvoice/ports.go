// Package einvoice orquesta la exportación CIUS-RO, la importación de facturas
// UBL recibidas y el adjunto PDF (servicio ANAF con respaldo local).
package einvoice

import (
	"context"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// ValsBuilder construye los valores UBL genéricos de una factura.
type ValsBuilder interface {
	Build(inv *entity.Invoice) (*ubl.Document, error)
}

// XMLWriter serializa un documento ya localizado.
type XMLWriter interface {
	Write(doc *ubl.Document) ([]byte, error)
}

// DocumentReader interpreta un UBL recibido.
type DocumentReader interface {
	Parse(data []byte) (*ubl.ImportedDocument, error)
}

// FallbackRenderer genera el PDF local cuando ANAF no responde.
type FallbackRenderer interface {
	RenderInvoice(ctx context.Context, inv *entity.Invoice) ([]byte, error)
}

// ImportTxRunner ejecuta la persistencia de la importación en una sola transacción.
type ImportTxRunner interface {
	RunImport(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		attachmentRepo repository.AttachmentRepository,
	) error) error
}
