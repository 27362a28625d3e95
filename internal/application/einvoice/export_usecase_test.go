package einvoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-ciusro/internal/application/einvoice"
	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/ublxml"
	pkgciusro "github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

const companyID = "c-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func exportableInvoice() *entity.Invoice {
	supplier := &entity.Partner{
		ID: "p-sup", Name: "Furnizor SRL", VAT: "RO1234567", CountryCode: "RO", VATSubjected: true,
		StateCode: "B", StateCountryCode: "RO", City: "Sector 1", Street: "Str. Lunga 1", Zip: "010101",
	}
	customer := &entity.Partner{
		ID: "p-cus", Name: "Client SA", Ref: "CLI-001", VAT: "40123456", CountryCode: "RO",
		StateCode: "CJ", StateCountryCode: "RO", City: "Cluj-Napoca", Street: "Str. Mare 2",
	}
	vat19 := &entity.Tax{ID: "t19", Name: "TVA 19%", Amount: dec("19"), AmountType: entity.TaxAmountPercent}
	return &entity.Invoice{
		ID: "inv-1", CompanyID: companyID, Name: "FACT/2024/0001", MoveType: entity.MoveTypeOutInvoice,
		State: entity.InvoiceStatePosted, CurrencyCode: "RON", CurrencyDP: 2,
		InvoiceDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PartnerID:         customer.ID,
		Partner:           customer,
		CommercialPartner: customer,
		Company:           &entity.Company{ID: companyID, Name: "Furnizor SRL", CurrencyCode: "RON", Partner: supplier},
		Lines: []*entity.InvoiceLine{
			{ID: "l-1", Name: "Servicii", Quantity: dec("2"), PriceUnit: dec("50"), Taxes: []*entity.Tax{vat19}},
		},
	}
}

func newExport(invs ...*entity.Invoice) *einvoice.ExportUseCase {
	log := zerolog.Nop()
	return einvoice.NewExportUseCase(
		newMemInvoices(invs...),
		ublxml.NewValsBuilder(),
		ciusro.NewLocalizer(log),
		ublxml.NewXMLWriter(),
		"en",
		log,
	)
}

func TestExport_GeneraXMLYNombre(t *testing.T) {
	uc := newExport(exportableInvoice())

	xml, filename, err := uc.Export(context.Background(), companyID, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "FACT_2024_0001_cius_ro.xml", filename)
	assert.Contains(t, string(xml), pkgciusro.CustomizationID)
	assert.Contains(t, string(xml), "RO-B")
	assert.Contains(t, string(xml), "SECTOR1")
	assert.Contains(t, string(xml), "Not Defined")
}

func TestExport_RestriccionesDevuelvenConstraintError(t *testing.T) {
	inv := exportableInvoice()
	inv.Partner.Street = ""
	inv.Partner.City = ""
	uc := newExport(inv)

	_, _, err := uc.Export(context.Background(), companyID, "inv-1")
	var cerr *einvoice.ConstraintError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t,
		[]string{"ciusro_customer_city_required", "ciusro_customer_street_required"},
		cerr.Constraints.Keys())
	assert.Contains(t, cerr.Error(), "The element Street is required on Client SA.")
}

func TestExport_NoEncontradaYAjena(t *testing.T) {
	uc := newExport(exportableInvoice())

	_, _, err := uc.Export(context.Background(), companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.Export(context.Background(), "otra-empresa", "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExport_SinCompaniaEsEntradaInvalida(t *testing.T) {
	inv := exportableInvoice()
	inv.Company = nil
	uc := newExport(inv)

	_, _, err := uc.Export(context.Background(), companyID, "inv-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConstraints_SoloEvalua(t *testing.T) {
	inv := exportableInvoice()
	inv.Company.Partner.City = "Bucuresti"
	uc := newExport(inv)

	c, err := uc.Constraints(context.Background(), companyID, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ciusro_supplier_invalid_city_name"}, c.Keys())

	ok, err := newExport(exportableInvoice()).Constraints(context.Background(), companyID, "inv-1")
	require.NoError(t, err)
	assert.Empty(t, ok)
}
