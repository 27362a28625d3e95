package repository

import (
	"context"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// AttachmentRepository adjuntos de las facturas.
type AttachmentRepository interface {
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Attachment, error)
	Create(ctx context.Context, a *entity.Attachment) error
}

// MessageRepository historial de mensajes de las facturas.
type MessageRepository interface {
	Post(ctx context.Context, m *entity.Message) error
}
