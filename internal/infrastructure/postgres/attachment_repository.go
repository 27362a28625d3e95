package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
)

var (
	_ repository.AttachmentRepository = (*AttachmentRepo)(nil)
	_ repository.MessageRepository    = (*MessageRepo)(nil)
)

// AttachmentRepo adjuntos (ir.attachment) de las facturas.
type AttachmentRepo struct {
	q Querier
}

// NewAttachmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttachmentRepository(q Querier) *AttachmentRepo {
	return &AttachmentRepo{q: q}
}

// ListByInvoice adjuntos de la factura en orden de creación.
func (r *AttachmentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Attachment, error) {
	const query = `
		SELECT id, name, res_model, res_id, datas, type, mimetype, created_at
		FROM attachments
		WHERE res_model = $1 AND res_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, entity.AttachmentResModelInvoice, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Attachment
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.Name, &a.ResModel, &a.ResID, &a.Datas, &a.Type, &a.Mimetype, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Create persiste el adjunto; asigna ID y fecha si faltan.
func (r *AttachmentRepo) Create(ctx context.Context, a *entity.Attachment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	const query = `
		INSERT INTO attachments (id, name, res_model, res_id, datas, type, mimetype, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.Name, a.ResModel, a.ResID, a.Datas, a.Type, a.Mimetype, a.CreatedAt); err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// MessageRepo historial (mail.message) de las facturas.
type MessageRepo struct {
	q Querier
}

// NewMessageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMessageRepository(q Querier) *MessageRepo {
	return &MessageRepo{q: q}
}

// Post publica un mensaje con sus adjuntos.
func (r *MessageRepo) Post(ctx context.Context, m *entity.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	const query = `
		INSERT INTO messages (id, res_model, res_id, body, attachment_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, m.ID, m.ResModel, m.ResID, m.Body, m.AttachmentIDs, m.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}
