package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento (move_type) del pipeline contable.
const (
	MoveTypeOutInvoice = "out_invoice" // Factura de venta
	MoveTypeOutRefund  = "out_refund"  // Nota de crédito de venta
	MoveTypeInInvoice  = "in_invoice"  // Factura de proveedor
	MoveTypeInRefund   = "in_refund"   // Nota de crédito de proveedor
)

// Estados de la factura.
const (
	InvoiceStateDraft  = "draft"
	InvoiceStatePosted = "posted"
)

// Invoice representa la cabecera de una factura junto con las relaciones ya resueltas
// que necesita la exportación UBL (compañía, socios, cuenta bancaria, líneas).
type Invoice struct {
	ID                  string
	CompanyID           string
	JournalID           string
	Name                string // Número de la factura (ej: "FACT/2024/0001")
	Ref                 string // Referencia del cliente / número del proveedor
	MoveType            string // ver constantes MoveType*
	State               string
	CurrencyCode        string
	CurrencyDP          int32 // Decimales de la moneda
	InvoiceDate         time.Time
	DueDate             *time.Time
	PartnerID           string
	CommercialPartnerID string
	ShippingPartnerID   string
	PartnerBankID       string
	PaymentReference    string
	EDITransaction      string // Índice de descarga ANAF (l10n_ro_edi_transaction)
	AmountUntaxed       decimal.Decimal
	AmountTax           decimal.Decimal
	AmountTotal         decimal.Decimal
	AmountResidual      decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Relaciones cargadas por el repositorio (pueden ser nil).
	Company           *Company
	Partner           *Partner
	CommercialPartner *Partner
	ShippingPartner   *Partner
	PartnerBank       *BankAccount
	Lines             []*InvoiceLine
}

// IsRefund indica si el documento es una nota de crédito (venta o compra).
func (i *Invoice) IsRefund() bool {
	return strings.Contains(i.MoveType, "refund")
}

// IsSale indica si el documento pertenece al circuito de ventas.
func (i *Invoice) IsSale() bool {
	return strings.HasPrefix(i.MoveType, "out_")
}

// PrepaidAmount importo ya pagado (total menos residual).
func (i *Invoice) PrepaidAmount() decimal.Decimal {
	if i.State != InvoiceStatePosted {
		return decimal.Zero
	}
	return i.AmountTotal.Sub(i.AmountResidual)
}

// InvoiceLine línea de factura con sus impuestos asociados.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Sequence    int
	Name        string // Etiqueta de la línea (nombre del producto)
	Description string // Descripción larga
	ProductCode string
	UnitCode    string // Código UN/ECE Rec 20 (H87, KGM, ...)
	Quantity    decimal.Decimal
	PriceUnit   decimal.Decimal
	Discount    decimal.Decimal // Porcentaje de descuento
	AccountID   string
	Taxes       []*Tax
}

// Subtotal importe neto de la línea: cantidad × precio × (1 - descuento%).
func (l *InvoiceLine) Subtotal() decimal.Decimal {
	gross := l.Quantity.Mul(l.PriceUnit)
	if l.Discount.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(1).Sub(l.Discount.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor)
}

// TaxNames nombres visibles de los impuestos de la línea.
func (l *InvoiceLine) TaxNames() []string {
	names := make([]string, 0, len(l.Taxes))
	for _, t := range l.Taxes {
		names = append(names, t.Name)
	}
	return names
}
