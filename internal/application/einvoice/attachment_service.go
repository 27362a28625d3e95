package einvoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/anaf"
)

// Origen del PDF adjuntado.
const (
	PDFSourceNone     = ""
	PDFSourceANAF     = "anaf"
	PDFSourceFallback = "fallback"
)

// PDFResult resultado de AttachPDF.
type PDFResult struct {
	Source       string
	AttachmentID string
}

// AttachmentService adjunta a la factura la representación PDF: primero la del
// servicio ANAF (a partir del XML descargado) y, si falla, la generada localmente.
type AttachmentService struct {
	invoiceRepo repository.InvoiceRepository
	attachments repository.AttachmentRepository
	messages    repository.MessageRepository
	anaf        anaf.PDFRenderer
	fallback    FallbackRenderer
	log         zerolog.Logger
}

// NewAttachmentService construye el servicio.
func NewAttachmentService(
	invoiceRepo repository.InvoiceRepository,
	attachments repository.AttachmentRepository,
	messages repository.MessageRepository,
	anafRenderer anaf.PDFRenderer,
	fallback FallbackRenderer,
	log zerolog.Logger,
) *AttachmentService {
	return &AttachmentService{
		invoiceRepo: invoiceRepo,
		attachments: attachments,
		messages:    messages,
		anaf:        anafRenderer,
		fallback:    fallback,
		log:         log,
	}
}

// AttachInvoicePDF carga la factura, verifica la empresa y ejecuta AttachPDF.
func (s *AttachmentService) AttachInvoicePDF(ctx context.Context, companyID, invoiceID string) (PDFResult, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return PDFResult{}, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return PDFResult{}, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return PDFResult{}, domain.ErrForbidden
	}
	return s.AttachPDF(ctx, inv)
}

// AttachPDF intenta el PDF de ANAF y, si no se obtiene, adjunta el PDF local.
// Solo devuelve error si tampoco se pudo adjuntar el de respaldo.
func (s *AttachmentService) AttachPDF(ctx context.Context, inv *entity.Invoice) (PDFResult, error) {
	att, err := s.RenderANAFPDF(ctx, inv)
	if err == nil && att != nil {
		return PDFResult{Source: PDFSourceANAF, AttachmentID: att.ID}, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("invoice", inv.ID).Msg("pdf: fallo el adjunto ANAF, se usa el PDF local")
	}

	pdf, err := s.fallback.RenderInvoice(ctx, inv)
	if err != nil {
		return PDFResult{}, fmt.Errorf("pdf: generar pdf local: %w", err)
	}
	att, err = s.addPDF(ctx, inv, pdf, "PDF generado localmente")
	if err != nil {
		return PDFResult{}, err
	}
	return PDFResult{Source: PDFSourceFallback, AttachmentID: att.ID}, nil
}

// RenderANAFPDF busca el XML descargado de ANAF ({transacción}.xml), lo envía al
// servicio de transformación y adjunta el PDF. (nil, nil) si no hay XML de origen
// o el servicio no devolvió un PDF.
func (s *AttachmentService) RenderANAFPDF(ctx context.Context, inv *entity.Invoice) (*entity.Attachment, error) {
	if inv.EDITransaction == "" {
		return nil, nil
	}
	list, err := s.attachments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("pdf: listar adjuntos: %w", err)
	}
	var source *entity.Attachment
	name := ciusro.SourceXMLName(inv)
	for _, a := range list {
		if strings.Contains(a.Name, name) {
			source = a
			break
		}
	}
	if source == nil {
		s.log.Debug().Str("invoice", inv.ID).Str("name", name).Msg("pdf: sin XML de origen")
		return nil, nil
	}

	xml, err := ciusro.DecodeAttachment(source.Datas)
	if err != nil {
		return nil, fmt.Errorf("pdf: decodificar %s: %w", source.Name, err)
	}
	res := s.anaf.RenderPDF(ctx, xml, ciusro.ANAFDocumentKind(inv.MoveType))
	if !res.OK {
		s.log.Info().Str("invoice", inv.ID).Str("reason", res.Reason).Msg("pdf: ANAF no devolvió PDF")
		return nil, nil
	}
	return s.addPDF(ctx, inv, res.PDF, "PDF ANAF")
}

// addPDF guarda el adjunto (nombre = referencia de la factura) y lo publica en el historial.
func (s *AttachmentService) addPDF(ctx context.Context, inv *entity.Invoice, pdf []byte, body string) (*entity.Attachment, error) {
	att := &entity.Attachment{
		Name:     inv.Ref,
		ResModel: entity.AttachmentResModelInvoice,
		ResID:    inv.ID,
		Datas:    ciusro.EncodeAttachment(pdf),
		Type:     entity.AttachmentTypeBinary,
		Mimetype: entity.MimetypePDF,
	}
	if err := s.attachments.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("pdf: guardar adjunto: %w", err)
	}
	msg := &entity.Message{
		ResModel:      entity.AttachmentResModelInvoice,
		ResID:         inv.ID,
		Body:          body,
		AttachmentIDs: []string{att.ID},
	}
	if err := s.messages.Post(ctx, msg); err != nil {
		// El adjunto ya existe; el mensaje es solo informativo.
		s.log.Warn().Err(err).Str("invoice", inv.ID).Msg("pdf: no se pudo publicar el mensaje")
	}
	return att, nil
}
