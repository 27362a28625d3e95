package ciusro

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// Truncate corta s a un máximo de n caracteres (runas, no bytes).
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// DistinctShippingPartner devuelve la dirección de entrega si difiere del socio facturado.
func DistinctShippingPartner(inv *entity.Invoice) *entity.Partner {
	if inv.ShippingPartner == nil {
		return nil
	}
	if inv.ShippingPartner.ID == inv.PartnerID {
		return nil
	}
	if inv.Partner != nil && inv.ShippingPartner.ID == inv.Partner.ID {
		return nil
	}
	return inv.ShippingPartner
}

// BuyerReference referencia interna del socio comercial o, en su defecto, su nombre.
func BuyerReference(inv *entity.Invoice) string {
	p := inv.CommercialPartner
	if p == nil {
		p = inv.Partner
	}
	if p == nil {
		return ""
	}
	if p.Ref != "" {
		return p.Ref
	}
	return p.Name
}

// OrderReference referencia de la factura (o su número) limitada a 30 caracteres.
func OrderReference(inv *entity.Invoice) string {
	ref := inv.Ref
	if ref == "" {
		ref = inv.Name
	}
	return Truncate(ref, ciusro.MaxOrderReferenceLen)
}

func applyDelivery(in Input, doc *ubl.Document) {
	shipping := DistinctShippingPartner(in.Invoice)
	if shipping == nil {
		return
	}
	doc.Vals.Delivery = []ubl.DeliveryVals{{
		ActualDeliveryDate: in.Invoice.InvoiceDate,
		Address:            FormatAddress(shipping, BaseAddress(shipping)),
	}}
}

// BaseAddress dirección genérica UBL del socio, sin reglas CIUS-RO.
func BaseAddress(p *entity.Partner) ubl.AddressVals {
	if p == nil {
		return ubl.AddressVals{}
	}
	return ubl.AddressVals{
		StreetName:           p.Street,
		AdditionalStreetName: p.Street2,
		CityName:             p.City,
		PostalZone:           p.Zip,
		CountryCode:          p.CountryCode,
	}
}

func applyLineItem(_ Input, doc *ubl.Document) {
	for i := range doc.Vals.Lines {
		line := &doc.Vals.Lines[i]
		line.Item.Description = Truncate(line.Item.Description, ciusro.MaxLineDescriptionLen)
		line.Item.Name = Truncate(line.Item.Name, ciusro.MaxLineNameLen)
		if cats := line.Item.ClassifiedTaxCategories; len(cats) > 0 &&
			cats[0].TaxCategoryCode == ciusro.TaxCategoryReverseCharge {
			cats[0].TaxExemptionReasonCode = ""
			cats[0].TaxExemptionReason = ""
		}
		line.Price.BaseQuantity = decimal.NewFromInt(1)
	}
}

func applyReferences(in Input, doc *ubl.Document) {
	doc.Vals.BuyerReference = BuyerReference(in.Invoice)
	doc.Vals.OrderReference = OrderReference(in.Invoice)
	doc.Vals.CustomizationID = ciusro.CustomizationID
	doc.TaxTotalTemplate = ubl.TaxTotalTemplateUBL20
}

func applyLineNumbering(_ Input, doc *ubl.Document) {
	for i := range doc.Vals.Lines {
		doc.Vals.Lines[i].ID = strconv.Itoa(i + 1)
	}
}

func applyPaymentMeans(in Input, doc *ubl.Document) {
	if in.Invoice.PartnerBank != nil || in.Invoice.PartnerBankID != "" {
		return
	}
	for i := range doc.Vals.PaymentMeans {
		doc.Vals.PaymentMeans[i].Code = ciusro.PaymentMeansNotDefined
		doc.Vals.PaymentMeans[i].Name = ciusro.PaymentMeansNotDefinedName
	}
}

// ExportFilename nombre del archivo XML exportado: "/" → "_" y sufijo "_cius_ro.xml".
func ExportFilename(inv *entity.Invoice) string {
	return strings.ReplaceAll(inv.Name, "/", "_") + "_cius_ro.xml"
}
