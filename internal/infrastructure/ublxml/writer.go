package ublxml

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// XMLWriter serializa un ubl.Document como UBL 2.1 Invoice.
type XMLWriter struct{}

// NewXMLWriter crea el escritor.
func NewXMLWriter() *XMLWriter {
	return &XMLWriter{}
}

// Write genera el []byte del documento. Respeta doc.TaxTotalTemplate para el layout de cac:TaxTotal.
func (w *XMLWriter) Write(doc *ubl.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("ubl: documento nil")
	}
	v := doc.Vals

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Invoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsInvoice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	writeCbc(enc, "CustomizationID", v.CustomizationID)
	writeCbc(enc, "ProfileID", v.ProfileID)
	writeCbc(enc, "ID", v.ID)
	writeCbc(enc, "IssueDate", v.IssueDate.Format("2006-01-02"))
	if v.DueDate != nil {
		writeCbc(enc, "DueDate", v.DueDate.Format("2006-01-02"))
	}
	writeCbc(enc, "InvoiceTypeCode", v.DocumentTypeCode)
	writeCbc(enc, "Note", v.Note)
	writeCbc(enc, "DocumentCurrencyCode", v.DocumentCurrencyCode)
	writeCbc(enc, "BuyerReference", v.BuyerReference)
	if v.OrderReference != "" {
		open(enc, "cac:OrderReference")
		writeCbc(enc, "ID", v.OrderReference)
		closeTag(enc, "cac:OrderReference")
	}

	// ---- Partes
	writeParty(enc, "cac:AccountingSupplierParty", v.Supplier)
	writeParty(enc, "cac:AccountingCustomerParty", v.Customer)

	// ---- Entrega y medios de pago
	for _, d := range v.Delivery {
		open(enc, "cac:Delivery")
		if !d.ActualDeliveryDate.IsZero() {
			writeCbc(enc, "ActualDeliveryDate", d.ActualDeliveryDate.Format("2006-01-02"))
		}
		open(enc, "cac:DeliveryLocation")
		writeAddress(enc, "cac:Address", d.Address)
		closeTag(enc, "cac:DeliveryLocation")
		closeTag(enc, "cac:Delivery")
	}
	for _, pm := range v.PaymentMeans {
		writePaymentMeans(enc, pm)
	}

	// ---- Impuestos y totales
	for _, tt := range v.TaxTotals {
		writeTaxTotal(enc, tt, doc.TaxTotalTemplate, v.DocumentCurrencyCode)
	}
	if lmt := v.LegalMonetaryTotal; lmt != nil {
		writeLegalMonetaryTotal(enc, lmt, v.DocumentCurrencyCode)
	}

	// ---- Líneas
	for _, line := range v.Lines {
		writeInvoiceLine(enc, line, v.DocumentCurrencyCode, currencyDP(v))
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func open(enc *xml.Encoder, name string, attr ...xml.Attr) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attr})
}

func closeTag(enc *xml.Encoder, name string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

// writeCbc escribe <cbc:local>value</cbc:local>; los valores vacíos se omiten.
func writeCbc(enc *xml.Encoder, local, value string, attr ...xml.Attr) {
	if value == "" {
		return
	}
	open(enc, "cbc:"+local, attr...)
	_ = enc.EncodeToken(xml.CharData(value))
	closeTag(enc, "cbc:"+local)
}

func writeCbcAmount(enc *xml.Encoder, local string, d decimal.Decimal, currency string, dp int32) {
	writeCbc(enc, local, d.StringFixed(dp), xml.Attr{Name: xml.Name{Local: "currencyID"}, Value: currency})
}

func writeCbcWithAttr(enc *xml.Encoder, local, value, attrLocal, attrValue string) {
	if attrValue == "" {
		writeCbc(enc, local, value)
		return
	}
	writeCbc(enc, local, value, xml.Attr{Name: xml.Name{Local: attrLocal}, Value: attrValue})
}

func writeParty(enc *xml.Encoder, wrapper string, p ubl.PartyVals) {
	open(enc, wrapper)
	open(enc, "cac:Party")
	writeCbc(enc, "EndpointID", p.EndpointID)
	if p.Name != "" {
		open(enc, "cac:PartyName")
		writeCbc(enc, "Name", p.Name)
		closeTag(enc, "cac:PartyName")
	}
	writeAddress(enc, "cac:PostalAddress", p.Address)
	for _, ts := range p.TaxSchemes {
		open(enc, "cac:PartyTaxScheme")
		writeCbc(enc, "CompanyID", ts.CompanyID)
		open(enc, "cac:TaxScheme")
		writeCbc(enc, "ID", ts.TaxSchemeID)
		closeTag(enc, "cac:TaxScheme")
		closeTag(enc, "cac:PartyTaxScheme")
	}
	open(enc, "cac:PartyLegalEntity")
	writeCbc(enc, "RegistrationName", p.RegistrationName)
	writeCbc(enc, "CompanyID", p.LegalCompanyID)
	closeTag(enc, "cac:PartyLegalEntity")
	if p.ContactName != "" || p.ContactPhone != "" || p.ContactEmail != "" {
		open(enc, "cac:Contact")
		writeCbc(enc, "Name", p.ContactName)
		writeCbc(enc, "Telephone", p.ContactPhone)
		writeCbc(enc, "ElectronicMail", p.ContactEmail)
		closeTag(enc, "cac:Contact")
	}
	closeTag(enc, "cac:Party")
	closeTag(enc, wrapper)
}

func writeAddress(enc *xml.Encoder, wrapper string, a ubl.AddressVals) {
	open(enc, wrapper)
	writeCbc(enc, "StreetName", a.StreetName)
	writeCbc(enc, "AdditionalStreetName", a.AdditionalStreetName)
	writeCbc(enc, "CityName", a.CityName)
	writeCbc(enc, "PostalZone", a.PostalZone)
	writeCbc(enc, "CountrySubentity", a.CountrySubentity)
	if a.CountryCode != "" {
		open(enc, "cac:Country")
		writeCbc(enc, "IdentificationCode", a.CountryCode)
		closeTag(enc, "cac:Country")
	}
	closeTag(enc, wrapper)
}

func writePaymentMeans(enc *xml.Encoder, pm ubl.PaymentMeansVals) {
	open(enc, "cac:PaymentMeans")
	writeCbcWithAttr(enc, "PaymentMeansCode", pm.Code, "name", pm.Name)
	writeCbc(enc, "PaymentID", pm.PaymentID)
	if pm.PayeeAccountID != "" {
		open(enc, "cac:PayeeFinancialAccount")
		writeCbc(enc, "ID", pm.PayeeAccountID)
		if pm.PayeeBIC != "" {
			open(enc, "cac:FinancialInstitutionBranch")
			writeCbc(enc, "ID", pm.PayeeBIC)
			closeTag(enc, "cac:FinancialInstitutionBranch")
		}
		closeTag(enc, "cac:PayeeFinancialAccount")
	}
	closeTag(enc, "cac:PaymentMeans")
}

// writeTaxTotal con la plantilla UBL 2.0 el porcentaje solo va dentro de cac:TaxCategory;
// con UBL 2.1 también en cac:TaxSubtotal.
func writeTaxTotal(enc *xml.Encoder, tt ubl.TaxTotalVals, template, docCurrency string) {
	currency := tt.Currency
	if currency == "" {
		currency = docCurrency
	}
	dp := tt.CurrencyDP
	if dp == 0 {
		dp = 2
	}
	open(enc, "cac:TaxTotal")
	writeCbcAmount(enc, "TaxAmount", tt.TaxAmount, currency, dp)
	for _, sub := range tt.Subtotals {
		open(enc, "cac:TaxSubtotal")
		writeCbcAmount(enc, "TaxableAmount", sub.TaxableAmount, currency, dp)
		writeCbcAmount(enc, "TaxAmount", sub.TaxAmount, currency, dp)
		if template != ubl.TaxTotalTemplateUBL20 {
			writeCbc(enc, "Percent", formatPercent(sub.Percent))
		}
		writeTaxCategory(enc, "cac:TaxCategory", sub.Category)
		closeTag(enc, "cac:TaxSubtotal")
	}
	closeTag(enc, "cac:TaxTotal")
}

func writeTaxCategory(enc *xml.Encoder, wrapper string, c ubl.TaxCategoryVals) {
	open(enc, wrapper)
	id := c.TaxCategoryCode
	if id == "" {
		id = c.ID
	}
	writeCbc(enc, "ID", id)
	writeCbc(enc, "Percent", formatPercent(c.Percent))
	writeCbc(enc, "TaxExemptionReasonCode", c.TaxExemptionReasonCode)
	writeCbc(enc, "TaxExemptionReason", c.TaxExemptionReason)
	open(enc, "cac:TaxScheme")
	writeCbc(enc, "ID", c.TaxSchemeID)
	closeTag(enc, "cac:TaxScheme")
	closeTag(enc, wrapper)
}

func writeLegalMonetaryTotal(enc *xml.Encoder, lmt *ubl.LegalMonetaryTotalVals, docCurrency string) {
	currency := lmt.Currency
	if currency == "" {
		currency = docCurrency
	}
	dp := lmt.CurrencyDP
	if dp == 0 {
		dp = 2
	}
	open(enc, "cac:LegalMonetaryTotal")
	writeCbcAmount(enc, "LineExtensionAmount", lmt.LineExtensionAmount, currency, dp)
	writeCbcAmount(enc, "TaxExclusiveAmount", lmt.TaxExclusiveAmount, currency, dp)
	writeCbcAmount(enc, "TaxInclusiveAmount", lmt.TaxInclusiveAmount, currency, dp)
	if !lmt.AllowanceTotalAmount.IsZero() {
		writeCbcAmount(enc, "AllowanceTotalAmount", lmt.AllowanceTotalAmount, currency, dp)
	}
	if !lmt.PrepaidAmount.IsZero() {
		writeCbcAmount(enc, "PrepaidAmount", lmt.PrepaidAmount, currency, dp)
	}
	writeCbcAmount(enc, "PayableAmount", lmt.PayableAmount, currency, dp)
	closeTag(enc, "cac:LegalMonetaryTotal")
}

// writeInvoiceLine los totales de impuesto por línea no se serializan (BIS 3 los prohíbe);
// la categoría viaja en cac:ClassifiedTaxCategory.
func writeInvoiceLine(enc *xml.Encoder, line ubl.InvoiceLineVals, currency string, dp int32) {
	open(enc, "cac:InvoiceLine")
	writeCbc(enc, "ID", line.ID)
	writeCbcWithAttr(enc, "InvoicedQuantity", line.InvoicedQuantity.String(), "unitCode", line.UnitCode)
	writeCbcAmount(enc, "LineExtensionAmount", line.LineExtensionAmount, currency, dp)

	open(enc, "cac:Item")
	writeCbc(enc, "Description", line.Item.Description)
	writeCbc(enc, "Name", line.Item.Name)
	if line.Item.SellersItemID != "" {
		open(enc, "cac:SellersItemIdentification")
		writeCbc(enc, "ID", line.Item.SellersItemID)
		closeTag(enc, "cac:SellersItemIdentification")
	}
	for _, c := range line.Item.ClassifiedTaxCategories {
		writeTaxCategory(enc, "cac:ClassifiedTaxCategory", c)
	}
	closeTag(enc, "cac:Item")

	open(enc, "cac:Price")
	writeCbc(enc, "PriceAmount", line.Price.PriceAmount.String(), xml.Attr{Name: xml.Name{Local: "currencyID"}, Value: currency})
	if !line.Price.BaseQuantity.IsZero() {
		writeCbcWithAttr(enc, "BaseQuantity", line.Price.BaseQuantity.String(), "unitCode", line.Price.UnitCode)
	}
	closeTag(enc, "cac:Price")

	closeTag(enc, "cac:InvoiceLine")
}

func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func currencyDP(v ubl.InvoiceVals) int32 {
	if v.LegalMonetaryTotal != nil && v.LegalMonetaryTotal.CurrencyDP > 0 {
		return v.LegalMonetaryTotal.CurrencyDP
	}
	return 2
}
