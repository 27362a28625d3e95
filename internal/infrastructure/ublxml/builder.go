// Package ublxml contiene la exportación e importación UBL 2.1 genérica (PEPPOL BIS 3):
// construcción de los valores a partir de la factura, escritura del XML y lectura
// de documentos recibidos.
package ublxml

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// CustomizationBIS3 identificador de personalización del exportador genérico.
const CustomizationBIS3 = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"

var hundred = decimal.NewFromInt(100)

// ValsBuilder construye los valores UBL genéricos de una factura (sin reglas CIUS-RO).
type ValsBuilder struct{}

// NewValsBuilder crea el constructor.
func NewValsBuilder() *ValsBuilder {
	return &ValsBuilder{}
}

// Build genera el documento con los valores BIS 3. La factura debe venir con compañía,
// socio y líneas cargados.
func (b *ValsBuilder) Build(inv *entity.Invoice) (*ubl.Document, error) {
	if inv == nil || inv.Company == nil || inv.Company.Partner == nil || inv.Partner == nil {
		return nil, fmt.Errorf("ubl: faltan invoice, company o partner")
	}
	supplier := inv.Company.Partner
	customer := inv.CommercialPartner
	if customer == nil {
		customer = inv.Partner
	}
	currency := inv.CurrencyCode
	if currency == "" {
		currency = inv.Company.CurrencyCode
	}
	dp := inv.CurrencyDP
	if dp == 0 {
		dp = 2
	}

	typeCode := ciusro.DocumentTypeInvoice
	if inv.IsRefund() {
		typeCode = ciusro.DocumentTypeCreditNote
	}

	vals := ubl.InvoiceVals{
		CustomizationID:      CustomizationBIS3,
		ProfileID:            ciusro.ProfileID,
		ID:                   inv.Name,
		IssueDate:            inv.InvoiceDate,
		DueDate:              inv.DueDate,
		DocumentTypeCode:     typeCode,
		DocumentCurrencyCode: currency,
		BuyerReference:       inv.Ref,
		OrderReference:       inv.Ref,
		Supplier:             partyVals(supplier),
		Customer:             partyVals(customer),
		Delivery:             deliveryVals(inv),
		PaymentMeans:         []ubl.PaymentMeansVals{paymentMeansVals(inv)},
	}

	// ── Líneas e impuestos agrupados por impuesto (orden de aparición) ──
	groups := map[string]*ubl.TaxSubtotalVals{}
	var order []string
	lineTotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, line := range inv.Lines {
		base := line.Subtotal().Round(dp)
		lv := ubl.InvoiceLineVals{
			ID:                  line.ID,
			InvoicedQuantity:    line.Quantity,
			UnitCode:            unitCode(line),
			LineExtensionAmount: base,
			Item: ubl.ItemVals{
				Description:   description(line),
				Name:          line.Name,
				SellersItemID: line.ProductCode,
			},
			Price: ubl.PriceVals{
				PriceAmount:  line.PriceUnit,
				BaseQuantity: line.Quantity,
				UnitCode:     unitCode(line),
			},
		}
		for _, t := range line.Taxes {
			amount := taxAmount(t, line, base).Round(dp)
			cat := taxCategory(t)
			lv.Item.ClassifiedTaxCategories = append(lv.Item.ClassifiedTaxCategories, cat)
			lv.TaxTotals = append(lv.TaxTotals, ubl.TaxSubtotalVals{
				Currency: currency, CurrencyDP: dp,
				TaxableAmount: base, TaxAmount: amount, Percent: cat.Percent, Category: cat, TaxID: t.ID,
			})

			g, ok := groups[t.ID]
			if !ok {
				g = &ubl.TaxSubtotalVals{
					Currency: currency, CurrencyDP: dp,
					Percent: cat.Percent, Category: cat, TaxID: t.ID,
				}
				groups[t.ID] = g
				order = append(order, t.ID)
			}
			g.TaxableAmount = g.TaxableAmount.Add(base)
			g.TaxAmount = g.TaxAmount.Add(amount)
			taxTotal = taxTotal.Add(amount)
		}
		lineTotal = lineTotal.Add(base)
		vals.Lines = append(vals.Lines, lv)
	}

	subtotals := make([]ubl.TaxSubtotalVals, 0, len(order))
	for _, id := range order {
		subtotals = append(subtotals, *groups[id])
	}
	vals.TaxTotals = []ubl.TaxTotalVals{{
		Currency: currency, CurrencyDP: dp, TaxAmount: taxTotal, Subtotals: subtotals,
	}}

	prepaid := inv.PrepaidAmount()
	inclusive := lineTotal.Add(taxTotal)
	vals.LegalMonetaryTotal = &ubl.LegalMonetaryTotalVals{
		Currency:            currency,
		CurrencyDP:          dp,
		LineExtensionAmount: lineTotal,
		TaxExclusiveAmount:  lineTotal,
		TaxInclusiveAmount:  inclusive,
		PrepaidAmount:       prepaid,
		PayableAmount:       inclusive.Sub(prepaid),
	}

	return &ubl.Document{
		Invoice:          inv,
		Supplier:         supplier,
		Customer:         customer,
		TaxTotalTemplate: ubl.TaxTotalTemplateUBL21,
		Vals:             vals,
	}, nil
}

func partyVals(p *entity.Partner) ubl.PartyVals {
	v := ubl.PartyVals{
		EndpointID:       p.VAT,
		Name:             p.Name,
		Address:          addressVals(p),
		RegistrationName: p.Name,
		LegalCompanyID:   p.CompanyRegistry,
		ContactName:      p.Name,
		ContactPhone:     p.Phone,
		ContactEmail:     p.Email,
	}
	if v.LegalCompanyID == "" {
		v.LegalCompanyID = p.VAT
	}
	if p.VAT != "" {
		v.TaxSchemes = []ubl.PartyTaxSchemeVals{{CompanyID: p.VAT, TaxSchemeID: ciusro.TaxSchemeVAT}}
	}
	return v
}

func addressVals(p *entity.Partner) ubl.AddressVals {
	return ubl.AddressVals{
		StreetName:           p.Street,
		AdditionalStreetName: p.Street2,
		CityName:             p.City,
		PostalZone:           p.Zip,
		CountryCode:          p.CountryCode,
	}
}

func deliveryVals(inv *entity.Invoice) []ubl.DeliveryVals {
	if inv.ShippingPartner == nil {
		return nil
	}
	return []ubl.DeliveryVals{{Address: addressVals(inv.ShippingPartner)}}
}

func paymentMeansVals(inv *entity.Invoice) ubl.PaymentMeansVals {
	pm := ubl.PaymentMeansVals{
		Code:      ciusro.PaymentMeansCreditTransfer,
		PaymentID: inv.PaymentReference,
	}
	if pm.PaymentID == "" {
		pm.PaymentID = inv.Name
	}
	if inv.PartnerBank != nil {
		pm.PayeeAccountID = inv.PartnerBank.IBAN
		pm.PayeeBIC = inv.PartnerBank.BIC
	}
	return pm
}

// taxCategory categoría genérica: la configurada en el impuesto, o S/E según el porcentaje.
func taxCategory(t *entity.Tax) ubl.TaxCategoryVals {
	cat := ubl.TaxCategoryVals{
		TaxSchemeID:            ciusro.TaxSchemeVAT,
		TaxExemptionReasonCode: t.ExemptionReasonCode,
		TaxExemptionReason:     t.ExemptionReason,
	}
	if t.IsPercent() {
		cat.Percent = t.Amount
	}
	code := t.CategoryCode
	if code == "" {
		code = ciusro.TaxCategoryStandard
		if cat.Percent.IsZero() {
			code = ciusro.TaxCategoryExempt
		}
	}
	if code == ciusro.TaxCategoryExempt && cat.TaxExemptionReason == "" && cat.TaxExemptionReasonCode == "" {
		cat.TaxExemptionReason = ciusro.ExemptionReasonDefault
	}
	cat.ID = code
	cat.TaxCategoryCode = code
	return cat
}

func taxAmount(t *entity.Tax, line *entity.InvoiceLine, base decimal.Decimal) decimal.Decimal {
	if t.IsPercent() {
		return base.Mul(t.Amount).Div(hundred)
	}
	return t.Amount.Mul(line.Quantity)
}

func unitCode(line *entity.InvoiceLine) string {
	if line.UnitCode == "" {
		return "H87"
	}
	return line.UnitCode
}

func description(line *entity.InvoiceLine) string {
	if line.Description != "" {
		return line.Description
	}
	return line.Name
}
