package entity

import "time"

// Company representa la compañía emisora (multi-compañía).
type Company struct {
	ID           string
	Name         string
	PartnerID    string // Socio con los datos fiscales y de dirección de la compañía
	CurrencyCode string
	// CreditNoteEInvoice activa la convención ANAF de notas de crédito con importes negativos
	// (l10n_ro_credit_note_einvoice).
	CreditNoteEInvoice bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Partner *Partner
}
