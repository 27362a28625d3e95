package http

import (
	"context"
	"encoding/base64"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/efactura-ciusro/internal/application/dto"
	"github.com/jhoicas/efactura-ciusro/internal/application/einvoice"
	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
)

// maxImportSize límite del XML recibido.
const maxImportSize = 10 << 20

// Contratos mínimos de los casos de uso (los implementa internal/application/einvoice).
type exportService interface {
	Export(ctx context.Context, companyID, invoiceID string) ([]byte, string, error)
	Constraints(ctx context.Context, companyID, invoiceID string) (ciusro.Constraints, error)
}

type importService interface {
	Import(ctx context.Context, companyID string, in einvoice.ImportRequest) (*einvoice.ImportResult, error)
}

type pdfService interface {
	AttachInvoicePDF(ctx context.Context, companyID, invoiceID string) (einvoice.PDFResult, error)
}

// EInvoiceHandler endpoints CIUS-RO (protegido).
type EInvoiceHandler struct {
	export exportService
	imp    importService
	pdf    pdfService
}

// NewEInvoiceHandler construye el handler.
func NewEInvoiceHandler(export exportService, imp importService, pdf pdfService) *EInvoiceHandler {
	return &EInvoiceHandler{export: export, imp: imp, pdf: pdf}
}

// ExportXML godoc
// @Summary      Descargar el XML CIUS-RO de la factura
// @Tags         ciusro
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ConstraintErrorResponse
// @Router       /api/invoices/{id}/ciusro/xml [get]
func (h *EInvoiceHandler) ExportXML(c *fiber.Ctx) error {
	companyID, id, ok := h.invoiceParams(c)
	if !ok {
		return nil
	}
	xml, filename, err := h.export.Export(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xml)
}

// Constraints godoc
// @Summary      Verificar las restricciones CIUS-RO de la factura
// @Tags         ciusro
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.ConstraintsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/ciusro/constraints [get]
func (h *EInvoiceHandler) Constraints(c *fiber.Ctx) error {
	companyID, id, ok := h.invoiceParams(c)
	if !ok {
		return nil
	}
	cs, err := h.export.Constraints(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConstraintsResponse{
		InvoiceID:   id,
		Exportable:  len(cs) == 0,
		Constraints: constraintEntries(cs),
	})
}

// Import godoc
// @Summary      Importar una factura UBL CIUS-RO recibida
// @Description  Acepta multipart (campo "file") o JSON con el XML en base64.
// @Tags         ciusro
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body      dto.ImportInvoiceRequest  false  "journal_id, transaction, xml_base64"
// @Success      201   {object}  dto.ImportInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/import [post]
func (h *EInvoiceHandler) Import(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	in, err := importRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	res, err := h.imp.Import(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	inv := res.Invoice
	return c.Status(fiber.StatusCreated).JSON(dto.ImportInvoiceResponse{
		InvoiceID:    inv.ID,
		Ref:          inv.Ref,
		MoveType:     inv.MoveType,
		PartnerID:    inv.PartnerID,
		AmountTotal:  inv.AmountTotal.StringFixed(inv.CurrencyDP),
		Lines:        len(inv.Lines),
		PDFSource:    res.PDF.Source,
		AttachmentID: res.PDF.AttachmentID,
		Logs:         res.Logs,
	})
}

// AttachPDF godoc
// @Summary      Adjuntar el PDF de la factura (ANAF o local)
// @Tags         ciusro
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      201  {object}  dto.PDFAttachmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/ciusro/pdf [post]
func (h *EInvoiceHandler) AttachPDF(c *fiber.Ctx) error {
	companyID, id, ok := h.invoiceParams(c)
	if !ok {
		return nil
	}
	res, err := h.pdf.AttachInvoicePDF(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PDFAttachmentResponse{
		InvoiceID:    id,
		Source:       res.Source,
		AttachmentID: res.AttachmentID,
	})
}

// invoiceParams empresa del token e ID de ruta; si falla ya escribió la respuesta.
func (h *EInvoiceHandler) invoiceParams(c *fiber.Ctx) (string, string, bool) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", "", false
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
		return "", "", false
	}
	return companyID, id, true
}

func importRequest(c *fiber.Ctx) (einvoice.ImportRequest, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return einvoice.ImportRequest{}, errors.New("no se pudo leer el archivo")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxImportSize))
		if err != nil {
			return einvoice.ImportRequest{}, errors.New("no se pudo leer el archivo")
		}
		return einvoice.ImportRequest{
			JournalID:   c.FormValue("journal_id"),
			Transaction: c.FormValue("transaction"),
			XML:         data,
		}, nil
	}

	var body dto.ImportInvoiceRequest
	if err := c.BodyParser(&body); err != nil {
		return einvoice.ImportRequest{}, errors.New("cuerpo inválido")
	}
	data, err := base64.StdEncoding.DecodeString(body.XMLBase64)
	if err != nil {
		return einvoice.ImportRequest{}, errors.New("xml_base64 inválido")
	}
	return einvoice.ImportRequest{JournalID: body.JournalID, Transaction: body.Transaction, XML: data}, nil
}

func constraintEntries(cs ciusro.Constraints) []dto.ConstraintEntry {
	out := make([]dto.ConstraintEntry, 0, len(cs))
	for _, k := range cs.Keys() {
		out = append(out, dto.ConstraintEntry{Key: k, Message: cs[k]})
	}
	return out
}

// writeError traduce los errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var cerr *einvoice.ConstraintError
	switch {
	case errors.As(err, &cerr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ConstraintErrorResponse{
			Code:        "CIUSRO_CONSTRAINTS",
			Message:     "la factura no cumple las restricciones CIUS-RO",
			Constraints: constraintEntries(cerr.Constraints),
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
