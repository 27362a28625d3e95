package einvoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// ConstraintError la factura no cumple las restricciones CIUS-RO y no se exporta.
type ConstraintError struct {
	Constraints ciusro.Constraints
}

func (e *ConstraintError) Error() string {
	msgs := make([]string, 0, len(e.Constraints))
	for _, k := range e.Constraints.Keys() {
		msgs = append(msgs, e.Constraints[k])
	}
	return "ciusro: restricciones incumplidas: " + strings.Join(msgs, "; ")
}

// ExportUseCase genera el XML CIUS-RO de una factura existente.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	builder     ValsBuilder
	localizer   *ciusro.Localizer
	writer      XMLWriter
	printer     *message.Printer
	log         zerolog.Logger
}

// NewExportUseCase construye el caso de uso. lang es el idioma de los mensajes de restricción.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	builder ValsBuilder,
	localizer *ciusro.Localizer,
	writer XMLWriter,
	lang string,
	log zerolog.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		builder:     builder,
		localizer:   localizer,
		writer:      writer,
		printer:     ciusro.NewPrinter(lang),
		log:         log,
	}
}

// Export devuelve el XML y el nombre de archivo.
//
// Retorna:
//   - domain.ErrNotFound   si la factura no existe.
//   - domain.ErrForbidden  si la factura no pertenece a la empresa del token.
//   - *ConstraintError     si proveedor o cliente incumplen las restricciones.
func (uc *ExportUseCase) Export(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	doc, err := uc.localizedDocument(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	if c := ciusro.CheckConstraints(doc, uc.printer); len(c) > 0 {
		uc.log.Info().
			Str("invoice", doc.Invoice.Name).
			Int("constraints", len(c)).
			Strs("keys", c.Keys()).
			Msg("ciusro: exportación bloqueada por restricciones")
		return nil, "", &ConstraintError{Constraints: c}
	}

	xml, err := uc.writer.Write(doc)
	if err != nil {
		return nil, "", fmt.Errorf("ciusro: serializar xml: %w", err)
	}
	return xml, ciusro.ExportFilename(doc.Invoice), nil
}

// Constraints solo evalúa las restricciones (vacío = exportable).
func (uc *ExportUseCase) Constraints(ctx context.Context, companyID, invoiceID string) (ciusro.Constraints, error) {
	doc, err := uc.localizedDocument(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return ciusro.CheckConstraints(doc, uc.printer), nil
}

func (uc *ExportUseCase) localizedDocument(ctx context.Context, companyID, invoiceID string) (*ubl.Document, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("ciusro: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	doc, err := uc.builder.Build(inv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	uc.localizer.Localize(doc)
	return doc, nil
}
