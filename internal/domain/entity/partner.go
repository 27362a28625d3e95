package entity

import "time"

// Partner socio comercial (cliente, proveedor o la propia compañía).
type Partner struct {
	ID                  string
	CompanyID           string
	CommercialPartnerID string
	Name                string
	Ref                 string // Referencia interna
	VAT                 string // CUI / cod TVA, con o sin prefijo de país
	CompanyRegistry     string // Nr. Reg. Com.
	Street              string
	Street2             string
	City                string
	Zip                 string
	StateCode           string // Código de județ (ej: "B", "CJ")
	StateCountryCode    string // País al que pertenece el județ
	CountryCode         string
	VATSubjected        bool // Plătitor de TVA (l10n_ro_vat_subjected)
	Email               string
	Phone               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasState indica si el socio tiene región/județ asignado.
func (p *Partner) HasState() bool {
	return p != nil && p.StateCode != ""
}

// BankAccount cuenta bancaria de cobro (partner_bank_id).
type BankAccount struct {
	ID        string
	PartnerID string
	IBAN      string
	BankName  string
	BIC       string
}
