package einvoice

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	pkgciusro "github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

const defaultCurrency = "RON"

// ImportRequest UBL recibido (normalmente descargado de ANAF).
type ImportRequest struct {
	JournalID   string
	Transaction string // Índice de descarga ANAF; nombra el adjunto XML de origen
	XML         []byte
}

// ImportResult factura creada y avisos no bloqueantes.
type ImportResult struct {
	Invoice *entity.Invoice
	PDF     PDFResult
	Logs    []string
}

// ImportUseCase crea una factura borrador a partir de un UBL CIUS-RO.
type ImportUseCase struct {
	reader      DocumentReader
	journalRepo repository.JournalRepository
	taxRepo     repository.TaxRepository
	partnerRepo repository.PartnerRepository
	invoiceRepo repository.InvoiceRepository
	txRunner    ImportTxRunner
	attachments *AttachmentService
	log         zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	reader DocumentReader,
	journalRepo repository.JournalRepository,
	taxRepo repository.TaxRepository,
	partnerRepo repository.PartnerRepository,
	invoiceRepo repository.InvoiceRepository,
	txRunner ImportTxRunner,
	attachments *AttachmentService,
	log zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		reader:      reader,
		journalRepo: journalRepo,
		taxRepo:     taxRepo,
		partnerRepo: partnerRepo,
		invoiceRepo: invoiceRepo,
		txRunner:    txRunner,
		attachments: attachments,
		log:         log,
	}
}

// Import interpreta el XML, crea la factura con sus líneas y, si el documento no
// trae un PDF embebido (AdditionalDocumentReference), adjunta uno.
func (uc *ImportUseCase) Import(ctx context.Context, companyID string, in ImportRequest) (*ImportResult, error) {
	if len(in.XML) == 0 || in.JournalID == "" {
		return nil, fmt.Errorf("%w: xml y journal_id son obligatorios", domain.ErrInvalidInput)
	}
	journal, err := uc.journalRepo.GetByID(ctx, in.JournalID)
	if err != nil {
		return nil, fmt.Errorf("import: obtener diario: %w", err)
	}
	if journal == nil {
		return nil, domain.ErrNotFound
	}
	if journal.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	doc, err := uc.reader.Parse(in.XML)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	inv := draftInvoice(companyID, journal, doc, in.Transaction)

	// ── Socio ────────────────────────────────────────────────────────────────
	vat, name := doc.SupplierVAT, doc.SupplierName
	if journal.Type == entity.JournalTypeSale {
		vat, name = doc.CustomerVAT, doc.CustomerName
	}
	if err := pkgciusro.ValidateCUI(vat); vat != "" && err != nil {
		res.Logs = append(res.Logs, fmt.Sprintf("CUI %q de %q: %v", vat, name, err))
	}
	partner, err := uc.partnerRepo.FindByVAT(ctx, companyID, vat)
	if err != nil {
		return nil, fmt.Errorf("import: buscar socio: %w", err)
	}
	if partner != nil {
		inv.PartnerID = partner.ID
		inv.CommercialPartnerID = partner.CommercialPartnerID
		inv.Partner = partner
	} else {
		res.Logs = append(res.Logs, fmt.Sprintf("No se encontró el socio %q (%s).", name, vat))
	}

	// ── Líneas ───────────────────────────────────────────────────────────────
	taxUse := ciusro.TaxUseForJournal(journal)
	for i, l := range doc.Lines {
		line := &entity.InvoiceLine{
			Sequence:    (i + 1) * 10,
			Name:        l.Name,
			Description: l.Description,
			ProductCode: l.SellersItemID,
			UnitCode:    l.UnitCode,
			Quantity:    l.Quantity,
			PriceUnit:   l.PriceUnit,
		}
		ciusro.DefaultLineAccount(line, journal)
		logs, err := uc.fillLineTaxes(ctx, companyID, taxUse, line, l)
		if err != nil {
			return nil, err
		}
		res.Logs = append(res.Logs, logs...)
		inv.Lines = append(inv.Lines, line)
	}
	computeAmounts(inv)

	// ── Persistencia ─────────────────────────────────────────────────────────
	err = uc.txRunner.RunImport(ctx, func(invoices repository.InvoiceRepository, attachments repository.AttachmentRepository) error {
		if err := invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("import: crear factura: %w", err)
		}
		if in.Transaction == "" {
			return nil
		}
		src := &entity.Attachment{
			Name:     ciusro.SourceXMLName(inv),
			ResModel: entity.AttachmentResModelInvoice,
			ResID:    inv.ID,
			Datas:    []byte(base64.StdEncoding.EncodeToString(in.XML)),
			Type:     entity.AttachmentTypeBinary,
			Mimetype: entity.MimetypeXML,
		}
		if err := attachments.Create(ctx, src); err != nil {
			return fmt.Errorf("import: guardar xml de origen: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Relee con compañía y socios para el PDF local.
	if full, err := uc.invoiceRepo.GetByID(ctx, inv.ID); err == nil && full != nil {
		inv = full
	}
	res.Invoice = inv

	if !doc.HasAdditionalDocument {
		pdf, err := uc.attachments.AttachPDF(ctx, inv)
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice", inv.ID).Msg("import: factura sin PDF")
			res.Logs = append(res.Logs, "No se pudo adjuntar el PDF de la factura.")
		}
		res.PDF = pdf
	}

	uc.log.Info().
		Str("invoice", inv.ID).
		Str("ref", inv.Ref).
		Int("lines", len(inv.Lines)).
		Str("pdf", res.PDF.Source).
		Msg("import: factura importada")
	return res, nil
}

// fillLineTaxes asigna los impuestos de la línea. Una única categoría O/E/Z toma
// el primer impuesto al 0% de la compañía; el resto se busca por porcentaje.
func (uc *ImportUseCase) fillLineTaxes(
	ctx context.Context,
	companyID, taxUse string,
	line *entity.InvoiceLine,
	l ubl.ImportedLine,
) ([]string, error) {
	var logs []string
	if ciusro.NeedsExemptTax(l.ClassifiedTaxIDs) {
		tax, err := uc.taxRepo.FindZeroPercent(ctx, companyID, taxUse)
		if err != nil {
			return nil, fmt.Errorf("import: buscar impuesto 0%%: %w", err)
		}
		if tax == nil {
			uc.log.Warn().Str("line", l.Name).Str("use", taxUse).Msg("import: no hay impuesto al 0%")
			return append(logs, fmt.Sprintf("No se encontró un impuesto al 0%% para la línea %q.", l.Name)), nil
		}
		line.Taxes = []*entity.Tax{tax}
		return logs, nil
	}

	for _, pct := range l.Percents {
		tax, err := uc.taxRepo.FindByPercent(ctx, companyID, taxUse, pct)
		if err != nil {
			return nil, fmt.Errorf("import: buscar impuesto: %w", err)
		}
		if tax == nil {
			logs = append(logs, fmt.Sprintf("No se encontró un impuesto del %s%% para la línea %q.", pct.String(), l.Name))
			continue
		}
		line.Taxes = append(line.Taxes, tax)
	}
	return logs, nil
}

func draftInvoice(companyID string, journal *entity.Journal, doc *ubl.ImportedDocument, transaction string) *entity.Invoice {
	moveType := entity.MoveTypeInInvoice
	switch {
	case journal.Type == entity.JournalTypeSale && doc.IsCreditNote:
		moveType = entity.MoveTypeOutRefund
	case journal.Type == entity.JournalTypeSale:
		moveType = entity.MoveTypeOutInvoice
	case doc.IsCreditNote:
		moveType = entity.MoveTypeInRefund
	}
	currency := doc.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &entity.Invoice{
		CompanyID:      companyID,
		JournalID:      journal.ID,
		Name:           doc.Ref,
		Ref:            doc.Ref,
		MoveType:       moveType,
		State:          entity.InvoiceStateDraft,
		CurrencyCode:   currency,
		CurrencyDP:     2,
		InvoiceDate:    doc.IssueDate,
		DueDate:        doc.DueDate,
		EDITransaction: transaction,
	}
}

// computeAmounts totales de cabecera a partir de las líneas y sus impuestos.
func computeAmounts(inv *entity.Invoice) {
	untaxed, tax := decimal.Zero, decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, l := range inv.Lines {
		base := l.Subtotal()
		untaxed = untaxed.Add(base)
		for _, t := range l.Taxes {
			if t.IsPercent() {
				tax = tax.Add(base.Mul(t.Amount).Div(hundred))
			} else {
				tax = tax.Add(t.Amount.Mul(l.Quantity))
			}
		}
	}
	dp := inv.CurrencyDP
	inv.AmountUntaxed = untaxed.Round(dp)
	inv.AmountTax = tax.Round(dp)
	inv.AmountTotal = inv.AmountUntaxed.Add(inv.AmountTax)
	inv.AmountResidual = inv.AmountTotal
}
