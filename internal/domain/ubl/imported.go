package ubl

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportedDocument datos extraídos de un UBL recibido (factura o nota de crédito).
type ImportedDocument struct {
	Ref                   string // cbc:ID del emisor
	TypeCode              string
	IsCreditNote          bool
	IssueDate             time.Time
	DueDate               *time.Time
	Currency              string
	SupplierVAT           string
	SupplierName          string
	CustomerVAT           string
	CustomerName          string
	PayableAmount         decimal.Decimal
	HasAdditionalDocument bool // Hay cac:AdditionalDocumentReference (normalmente el PDF embebido)
	Lines                 []ImportedLine
}

// ImportedLine línea importada con las categorías de impuesto declaradas.
type ImportedLine struct {
	Name             string
	Description      string
	SellersItemID    string
	UnitCode         string
	Quantity         decimal.Decimal
	PriceUnit        decimal.Decimal
	ClassifiedTaxIDs []string
	Percents         []decimal.Decimal
}
