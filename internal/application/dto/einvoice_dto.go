package dto

// ConstraintsResponse resultado de GET /api/invoices/{id}/ciusro/constraints.
type ConstraintsResponse struct {
	InvoiceID   string            `json:"invoice_id"`
	Exportable  bool              `json:"exportable"`
	Constraints []ConstraintEntry `json:"constraints"`
}

// ImportInvoiceRequest cuerpo JSON de POST /api/invoices/import.
// XML va en base64; también se acepta multipart con el campo "file".
type ImportInvoiceRequest struct {
	JournalID   string `json:"journal_id" form:"journal_id"`
	Transaction string `json:"transaction" form:"transaction"`
	XMLBase64   string `json:"xml_base64"`
}

// ImportInvoiceResponse factura creada por la importación.
type ImportInvoiceResponse struct {
	InvoiceID    string   `json:"invoice_id"`
	Ref          string   `json:"ref"`
	MoveType     string   `json:"move_type"`
	PartnerID    string   `json:"partner_id,omitempty"`
	AmountTotal  string   `json:"amount_total"`
	Lines        int      `json:"lines"`
	PDFSource    string   `json:"pdf_source,omitempty"`
	AttachmentID string   `json:"attachment_id,omitempty"`
	Logs         []string `json:"logs,omitempty"`
}

// PDFAttachmentResponse resultado de POST /api/invoices/{id}/ciusro/pdf.
type PDFAttachmentResponse struct {
	InvoiceID    string `json:"invoice_id"`
	Source       string `json:"source"` // anaf | fallback
	AttachmentID string `json:"attachment_id"`
}
