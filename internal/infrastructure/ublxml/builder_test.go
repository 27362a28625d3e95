package ublxml_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/ublxml"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice() *entity.Invoice {
	supplier := &entity.Partner{
		ID: "p-sup", Name: "Furnizor SRL", VAT: "RO1234567", CountryCode: "RO",
		StateCode: "B", City: "Sector 1", Street: "Str. Lunga 1", Zip: "010101",
	}
	customer := &entity.Partner{
		ID: "p-cus", Name: "Client SA", VAT: "RO7654321", CountryCode: "RO",
		StateCode: "CJ", City: "Cluj-Napoca", Street: "Str. Mare 2",
	}
	vat19 := &entity.Tax{ID: "t19", Name: "TVA 19%", Amount: dec("19"), AmountType: entity.TaxAmountPercent}
	vat0 := &entity.Tax{ID: "t0", Name: "TVA 0%", Amount: decimal.Zero, AmountType: entity.TaxAmountPercent}
	return &entity.Invoice{
		ID: "inv-1", Name: "FACT/2024/0001", Ref: "PO-7", MoveType: entity.MoveTypeOutInvoice,
		State: entity.InvoiceStatePosted, CurrencyCode: "RON", CurrencyDP: 2,
		InvoiceDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PartnerID:      customer.ID,
		Partner:        customer,
		AmountTotal:    dec("269.00"),
		AmountResidual: dec("200.00"),
		Company:        &entity.Company{ID: "c-1", Name: "Furnizor SRL", CurrencyCode: "RON", Partner: supplier},
		PartnerBank:    &entity.BankAccount{IBAN: "RO49AAAA1B31007593840000", BIC: "AAAARO22"},
		Lines: []*entity.InvoiceLine{
			{ID: "l-1", Name: "Servicii", Quantity: dec("2"), PriceUnit: dec("50"), Taxes: []*entity.Tax{vat19}},
			{ID: "l-2", Name: "Consultanta", Quantity: dec("1"), PriceUnit: dec("100"), Taxes: []*entity.Tax{vat19}},
			{ID: "l-3", Name: "Carte", Quantity: dec("1"), PriceUnit: dec("50"), Taxes: []*entity.Tax{vat0}},
		},
	}
}

func TestValsBuilder_Build_AgrupaImpuestosYTotales(t *testing.T) {
	doc, err := ublxml.NewValsBuilder().Build(sampleInvoice())
	require.NoError(t, err)

	v := doc.Vals
	assert.Equal(t, ublxml.CustomizationBIS3, v.CustomizationID)
	assert.Equal(t, "380", v.DocumentTypeCode)
	assert.Equal(t, ubl.TaxTotalTemplateUBL21, doc.TaxTotalTemplate)

	require.Len(t, v.TaxTotals, 1)
	tt := v.TaxTotals[0]
	assert.True(t, tt.TaxAmount.Equal(dec("38.00")))
	require.Len(t, tt.Subtotals, 2)
	assert.Equal(t, "t19", tt.Subtotals[0].TaxID)
	assert.True(t, tt.Subtotals[0].TaxableAmount.Equal(dec("200")))
	assert.Equal(t, "S", tt.Subtotals[0].Category.TaxCategoryCode)
	assert.Equal(t, "E", tt.Subtotals[1].Category.TaxCategoryCode)
	assert.NotEmpty(t, tt.Subtotals[1].Category.TaxExemptionReason)

	lmt := v.LegalMonetaryTotal
	assert.True(t, lmt.LineExtensionAmount.Equal(dec("250")))
	assert.True(t, lmt.TaxInclusiveAmount.Equal(dec("288")))
	assert.True(t, lmt.PrepaidAmount.Equal(dec("69")))
	assert.True(t, lmt.PayableAmount.Equal(dec("219")))

	require.Len(t, v.Lines, 3)
	assert.Equal(t, "l-1", v.Lines[0].ID)
	assert.Equal(t, "H87", v.Lines[0].UnitCode)
	assert.Equal(t, "Servicii", v.Lines[0].Item.Description)

	require.Len(t, v.PaymentMeans, 1)
	assert.Equal(t, "31", v.PaymentMeans[0].Code)
	assert.Equal(t, "RO49AAAA1B31007593840000", v.PaymentMeans[0].PayeeAccountID)
}

func TestValsBuilder_Build_NotaDeCredito(t *testing.T) {
	inv := sampleInvoice()
	inv.MoveType = entity.MoveTypeOutRefund
	doc, err := ublxml.NewValsBuilder().Build(inv)
	require.NoError(t, err)
	assert.Equal(t, "381", doc.Vals.DocumentTypeCode)
	assert.True(t, doc.Vals.LegalMonetaryTotal.TaxExclusiveAmount.IsPositive(), "el exportador genérico no cambia el signo")
}

func TestValsBuilder_Build_SinCompania(t *testing.T) {
	_, err := ublxml.NewValsBuilder().Build(&entity.Invoice{})
	assert.Error(t, err)
}
