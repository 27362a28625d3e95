// Package ubl define el esquema tipado de valores que alimenta la serialización
// UBL 2.1 de facturas (equivalente tipado del diccionario "vals" del exportador genérico).
// Cada paso de localización muta un *Document; el escritor XML solo lee estos campos.
package ubl

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// Plantillas de cac:TaxTotal soportadas por el escritor.
const (
	TaxTotalTemplateUBL21 = "ubl_21" // Percent dentro de TaxSubtotal y TaxCategory
	TaxTotalTemplateUBL20 = "ubl_20" // Percent solo dentro de TaxCategory
)

// TaxSchemeNotVAT valor centinela de PartyTaxScheme: el identificador es un CUI
// (Company ID) y no un código de TVA.
const TaxSchemeNotVAT = "!= VAT"

// Document agrupa los valores de exportación de una factura.
type Document struct {
	Invoice          *entity.Invoice
	Supplier         *entity.Partner
	Customer         *entity.Partner
	TaxTotalTemplate string
	Vals             InvoiceVals
}

// InvoiceVals raíz del documento UBL.
type InvoiceVals struct {
	CustomizationID      string
	ProfileID            string
	ID                   string
	IssueDate            time.Time
	DueDate              *time.Time
	DocumentTypeCode     string
	Note                 string
	DocumentCurrencyCode string
	BuyerReference       string
	OrderReference       string
	Supplier             PartyVals
	Customer             PartyVals
	Delivery             []DeliveryVals
	PaymentMeans         []PaymentMeansVals
	TaxTotals            []TaxTotalVals
	LegalMonetaryTotal   *LegalMonetaryTotalVals
	Lines                []InvoiceLineVals
}

// PartyVals cac:Party de proveedor o cliente.
type PartyVals struct {
	EndpointID       string
	Name             string
	Address          AddressVals
	TaxSchemes       []PartyTaxSchemeVals
	RegistrationName string
	LegalCompanyID   string
	ContactName      string
	ContactPhone     string
	ContactEmail     string
}

// AddressVals cac:PostalAddress / cac:DeliveryLocation/cac:Address.
type AddressVals struct {
	StreetName           string
	AdditionalStreetName string
	CityName             string
	PostalZone           string
	CountrySubentity     string
	CountryCode          string
}

// PartyTaxSchemeVals cac:PartyTaxScheme.
type PartyTaxSchemeVals struct {
	CompanyID   string
	TaxSchemeID string
}

// TaxCategoryVals cac:TaxCategory / cac:ClassifiedTaxCategory.
type TaxCategoryVals struct {
	ID                     string
	TaxCategoryCode        string
	Percent                decimal.Decimal
	TaxExemptionReasonCode string
	TaxExemptionReason     string
	TaxSchemeID            string
}

// TaxTotalVals cac:TaxTotal a nivel de documento.
type TaxTotalVals struct {
	Currency   string
	CurrencyDP int32
	TaxAmount  decimal.Decimal
	Subtotals  []TaxSubtotalVals
}

// TaxSubtotalVals cac:TaxSubtotal. TaxID referencia el impuesto de origen del grupo.
type TaxSubtotalVals struct {
	Currency      string
	CurrencyDP    int32
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Percent       decimal.Decimal
	Category      TaxCategoryVals
	TaxID         string
}

// LegalMonetaryTotalVals cac:LegalMonetaryTotal.
type LegalMonetaryTotalVals struct {
	Currency             string
	CurrencyDP           int32
	LineExtensionAmount  decimal.Decimal
	TaxExclusiveAmount   decimal.Decimal
	TaxInclusiveAmount   decimal.Decimal
	AllowanceTotalAmount decimal.Decimal
	PrepaidAmount        decimal.Decimal
	PayableAmount        decimal.Decimal
}

// InvoiceLineVals cac:InvoiceLine.
type InvoiceLineVals struct {
	ID                  string
	InvoicedQuantity    decimal.Decimal
	UnitCode            string
	LineExtensionAmount decimal.Decimal
	TaxTotals           []TaxSubtotalVals
	Item                ItemVals
	Price               PriceVals
}

// ItemVals cac:Item.
type ItemVals struct {
	Description             string
	Name                    string
	SellersItemID           string
	ClassifiedTaxCategories []TaxCategoryVals
}

// PriceVals cac:Price.
type PriceVals struct {
	PriceAmount  decimal.Decimal
	BaseQuantity decimal.Decimal
	UnitCode     string
}

// DeliveryVals cac:Delivery.
type DeliveryVals struct {
	ActualDeliveryDate time.Time
	Address            AddressVals
}

// PaymentMeansVals cac:PaymentMeans.
type PaymentMeansVals struct {
	Code           string
	Name           string // atributo name de cbc:PaymentMeansCode
	PaymentID      string
	PayeeAccountID string
	PayeeBIC       string
}
