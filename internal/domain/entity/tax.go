package entity

import "github.com/shopspring/decimal"

// Uso del impuesto (type_tax_use).
const (
	TaxUseSale     = "sale"
	TaxUsePurchase = "purchase"
)

// Tipos de cálculo del impuesto.
const (
	TaxAmountPercent = "percent"
	TaxAmountFixed   = "fixed"
)

// Tax impuesto configurado en la compañía.
type Tax struct {
	ID                  string
	CompanyID           string
	Name                string // Nombre visible; "Invers" en el nombre marca taxare inversă
	Amount              decimal.Decimal
	AmountType          string // ver TaxAmount*
	TypeTaxUse          string // ver TaxUse*
	CategoryCode        string // UNCL5305 configurado (opcional)
	ExemptionReasonCode string
	ExemptionReason     string
}

// IsPercent indica si el impuesto se calcula como porcentaje de la base.
func (t *Tax) IsPercent() bool {
	return t.AmountType == "" || t.AmountType == TaxAmountPercent
}
