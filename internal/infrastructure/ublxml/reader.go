package ublxml

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// Reader lee facturas y notas de crédito UBL 2.1. Las rutas no llevan prefijo, así que
// coinciden con cualquier namespace (cbc:, cac: o por defecto).
type Reader struct{}

// NewReader crea el lector.
func NewReader() *Reader {
	return &Reader{}
}

// Parse extrae cabecera, partes y líneas del XML.
func (r *Reader) Parse(data []byte) (*ubl.ImportedDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, domain.NewParseError("xml", "documento ilegible", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, domain.NewParseError("xml", "documento sin raíz", nil)
	}

	out := &ubl.ImportedDocument{}
	switch root.Tag {
	case "Invoice":
		out.TypeCode = text(root, "./InvoiceTypeCode")
	case "CreditNote":
		out.IsCreditNote = true
		out.TypeCode = text(root, "./CreditNoteTypeCode")
	default:
		return nil, domain.NewParseError("root", "se esperaba Invoice o CreditNote, llegó "+root.Tag, nil)
	}

	out.Ref = text(root, "./ID")
	if out.Ref == "" {
		return nil, domain.NewParseError("ID", "falta cbc:ID", nil)
	}
	issue, err := parseDate(text(root, "./IssueDate"))
	if err != nil {
		return nil, domain.NewParseError("IssueDate", "fecha inválida", err)
	}
	out.IssueDate = issue
	if due := text(root, "./DueDate"); due != "" {
		d, err := parseDate(due)
		if err != nil {
			return nil, domain.NewParseError("DueDate", "fecha inválida", err)
		}
		out.DueDate = &d
	}
	out.Currency = text(root, "./DocumentCurrencyCode")
	out.SupplierVAT = text(root, "./AccountingSupplierParty/Party/PartyTaxScheme/CompanyID")
	if out.SupplierVAT == "" {
		out.SupplierVAT = text(root, "./AccountingSupplierParty/Party/PartyLegalEntity/CompanyID")
	}
	out.SupplierName = partyName(root.FindElement("./AccountingSupplierParty/Party"))
	out.CustomerVAT = text(root, "./AccountingCustomerParty/Party/PartyTaxScheme/CompanyID")
	out.CustomerName = partyName(root.FindElement("./AccountingCustomerParty/Party"))
	out.HasAdditionalDocument = root.FindElement("./AdditionalDocumentReference") != nil
	if out.PayableAmount, err = amount(root, "./LegalMonetaryTotal/PayableAmount"); err != nil {
		return nil, domain.NewParseError("PayableAmount", "importe inválido", err)
	}

	lineTag, qtyTag := "InvoiceLine", "InvoicedQuantity"
	if out.IsCreditNote {
		lineTag, qtyTag = "CreditNoteLine", "CreditedQuantity"
	}
	for _, el := range root.SelectElements(lineTag) {
		line, err := parseLine(el, qtyTag)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

func parseLine(el *etree.Element, qtyTag string) (ubl.ImportedLine, error) {
	line := ubl.ImportedLine{
		Name:          text(el, "./Item/Name"),
		Description:   text(el, "./Item/Description"),
		SellersItemID: text(el, "./Item/SellersItemIdentification/ID"),
	}
	if q := el.FindElement("./" + qtyTag); q != nil {
		line.UnitCode = q.SelectAttrValue("unitCode", "")
	}
	var err error
	if line.Quantity, err = amount(el, "./"+qtyTag); err != nil {
		return line, domain.NewParseError(qtyTag, "cantidad inválida", err)
	}
	if line.PriceUnit, err = amount(el, "./Price/PriceAmount"); err != nil {
		return line, domain.NewParseError("PriceAmount", "precio inválido", err)
	}
	for _, cat := range el.FindElements("./Item/ClassifiedTaxCategory") {
		line.ClassifiedTaxIDs = append(line.ClassifiedTaxIDs, text(cat, "./ID"))
		pct, err := amount(cat, "./Percent")
		if err != nil {
			return line, domain.NewParseError("Percent", "porcentaje inválido", err)
		}
		line.Percents = append(line.Percents, pct)
	}
	return line, nil
}

func partyName(party *etree.Element) string {
	if party == nil {
		return ""
	}
	if name := text(party, "./PartyName/Name"); name != "" {
		return name
	}
	return text(party, "./PartyLegalEntity/RegistrationName")
}

func text(el *etree.Element, path string) string {
	if found := el.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

// amount lee un decimal; ausente equivale a cero.
func amount(el *etree.Element, path string) (decimal.Decimal, error) {
	s := text(el, path)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
