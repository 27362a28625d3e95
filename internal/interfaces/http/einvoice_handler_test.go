package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-ciusro/internal/application/dto"
	"github.com/jhoicas/efactura-ciusro/internal/application/einvoice"
	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	apphttp "github.com/jhoicas/efactura-ciusro/internal/interfaces/http"
)

const testInvoiceID = "11111111-1111-1111-1111-111111111111"

// ──────────────────────────────────────────────────────────────────────────────
// Servicios falsos
// ──────────────────────────────────────────────────────────────────────────────

type stubExport struct {
	xml         []byte
	filename    string
	constraints ciusro.Constraints
	err         error
	gotCompany  string
}

func (s *stubExport) Export(_ context.Context, companyID, _ string) ([]byte, string, error) {
	s.gotCompany = companyID
	if s.err != nil {
		return nil, "", s.err
	}
	if len(s.constraints) > 0 {
		return nil, "", &einvoice.ConstraintError{Constraints: s.constraints}
	}
	return s.xml, s.filename, nil
}

func (s *stubExport) Constraints(_ context.Context, _, _ string) (ciusro.Constraints, error) {
	return s.constraints, s.err
}

type stubImport struct {
	got einvoice.ImportRequest
	err error
}

func (s *stubImport) Import(_ context.Context, _ string, in einvoice.ImportRequest) (*einvoice.ImportResult, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &einvoice.ImportResult{
		Invoice: &entity.Invoice{
			ID: "inv-new", Ref: "FURN-0042", MoveType: entity.MoveTypeInInvoice,
			CurrencyDP: 2, AmountTotal: decimal.RequireFromString("269"),
		},
		PDF: einvoice.PDFResult{Source: einvoice.PDFSourceANAF, AttachmentID: "att-1"},
	}, nil
}

type stubPDF struct {
	res einvoice.PDFResult
	err error
}

func (s *stubPDF) AttachInvoicePDF(_ context.Context, _, _ string) (einvoice.PDFResult, error) {
	return s.res, s.err
}

func newEInvoiceApp(exp *stubExport, imp *stubImport, pdf *stubPDF) *fiber.App {
	app := fiber.New()
	apphttp.RegisterEInvoiceRoutes(app, testJWTSecret, apphttp.NewEInvoiceHandler(exp, imp, pdf))
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request, role string) *http.Response {
	t.Helper()
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestExportXML_DevuelveArchivo(t *testing.T) {
	exp := &stubExport{xml: []byte("<Invoice/>"), filename: "FACT_1_cius_ro.xml"}
	app := newEInvoiceApp(exp, &stubImport{}, &stubPDF{})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+testInvoiceID+"/ciusro/xml", nil)
	resp := send(t, app, req, "operator")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "FACT_1_cius_ro.xml")
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<Invoice/>", string(body))
	assert.Equal(t, testCompanyID, exp.gotCompany)
}

func TestExportXML_Restricciones422(t *testing.T) {
	exp := &stubExport{constraints: ciusro.Constraints{
		"ciusro_customer_street_required": "The element Street is required on Client SA.",
		"ciusro_customer_city_required":   "The element City is required on Client SA.",
	}}
	app := newEInvoiceApp(exp, &stubImport{}, &stubPDF{})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+testInvoiceID+"/ciusro/xml", nil)
	resp := send(t, app, req, "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body dto.ConstraintErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "CIUSRO_CONSTRAINTS", body.Code)
	require.Len(t, body.Constraints, 2)
	assert.Equal(t, "ciusro_customer_city_required", body.Constraints[0].Key)
}

func TestExportXML_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: sin socio", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("db caída"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newEInvoiceApp(&stubExport{err: tc.err}, &stubImport{}, &stubPDF{})
		req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+testInvoiceID+"/ciusro/xml", nil)
		resp := send(t, app, req, "admin")
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		resp.Body.Close()
	}
}

func TestExportXML_IDInvalido(t *testing.T) {
	app := newEInvoiceApp(&stubExport{}, &stubImport{}, &stubPDF{})
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/no-es-uuid/ciusro/xml", nil)
	resp := send(t, app, req, "admin")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConstraints_Exportable(t *testing.T) {
	app := newEInvoiceApp(&stubExport{constraints: ciusro.Constraints{}}, &stubImport{}, &stubPDF{})
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+testInvoiceID+"/ciusro/constraints", nil)
	resp := send(t, app, req, "operator")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.ConstraintsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Exportable)
	assert.Empty(t, body.Constraints)
	assert.Equal(t, testInvoiceID, body.InvoiceID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación y PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_JSONBase64(t *testing.T) {
	imp := &stubImport{}
	app := newEInvoiceApp(&stubExport{}, imp, &stubPDF{})

	payload, _ := json.Marshal(dto.ImportInvoiceRequest{
		JournalID: "j-1", Transaction: "3012345678",
		XMLBase64: base64.StdEncoding.EncodeToString([]byte("<Invoice/>")),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/import", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := send(t, app, req, "contabil")
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body dto.ImportInvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "inv-new", body.InvoiceID)
	assert.Equal(t, "269.00", body.AmountTotal)
	assert.Equal(t, "anaf", body.PDFSource)
	assert.Equal(t, []byte("<Invoice/>"), imp.got.XML)
	assert.Equal(t, "3012345678", imp.got.Transaction)
}

func TestImport_Multipart(t *testing.T) {
	imp := &stubImport{}
	app := newEInvoiceApp(&stubExport{}, imp, &stubPDF{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("journal_id", "j-1"))
	fw, err := mw.CreateFormFile("file", "3012345678.xml")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("<Invoice/>"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := send(t, app, req, "admin")
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "j-1", imp.got.JournalID)
	assert.Equal(t, []byte("<Invoice/>"), imp.got.XML)
}

func TestImport_OperatorNoPuedeImportar(t *testing.T) {
	app := newEInvoiceApp(&stubExport{}, &stubImport{}, &stubPDF{})
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/import", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := send(t, app, req, "operator")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestImport_Base64Invalido(t *testing.T) {
	app := newEInvoiceApp(&stubExport{}, &stubImport{}, &stubPDF{})
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/import",
		bytes.NewReader([]byte(`{"journal_id":"j-1","xml_base64":"%%%"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := send(t, app, req, "admin")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachPDF_Respaldo(t *testing.T) {
	pdf := &stubPDF{res: einvoice.PDFResult{Source: einvoice.PDFSourceFallback, AttachmentID: "att-9"}}
	app := newEInvoiceApp(&stubExport{}, &stubImport{}, pdf)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/"+testInvoiceID+"/ciusro/pdf", nil)
	resp := send(t, app, req, "contabil")
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body dto.PDFAttachmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fallback", body.Source)
	assert.Equal(t, "att-9", body.AttachmentID)
}
