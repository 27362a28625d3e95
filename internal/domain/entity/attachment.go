package entity

import "time"

// Valores fijos de ir.attachment usados por la localización.
const (
	AttachmentResModelInvoice = "account.move"
	AttachmentTypeBinary      = "binary"
	MimetypePDF               = "application/pdf"
	MimetypeXML               = "application/xml"
)

// Attachment adjunto binario vinculado a un registro (factura).
type Attachment struct {
	ID        string
	Name      string
	ResModel  string
	ResID     string
	Datas     []byte // Contenido en base64 (tal como lo guarda el almacén)
	Type      string
	Mimetype  string
	CreatedAt time.Time
}

// Message mensaje publicado en el historial de la factura.
type Message struct {
	ID            string
	ResModel      string
	ResID         string
	Body          string
	AttachmentIDs []string
	CreatedAt     time.Time
}
