package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/efactura-ciusro/internal/domain"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene la factura con todas las relaciones que necesita la exportación.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	const query = `
		SELECT id, company_id, COALESCE(journal_id::text, ''), name, COALESCE(ref, ''), move_type, state,
		       currency_code, currency_dp, invoice_date, due_date,
		       partner_id, COALESCE(commercial_partner_id::text, ''), COALESCE(shipping_partner_id::text, ''),
		       COALESCE(partner_bank_id::text, ''), COALESCE(payment_reference, ''), COALESCE(edi_transaction, ''),
		       amount_untaxed, amount_tax, amount_total, amount_residual,
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.JournalID, &inv.Name, &inv.Ref, &inv.MoveType, &inv.State,
		&inv.CurrencyCode, &inv.CurrencyDP, &inv.InvoiceDate, &inv.DueDate,
		&inv.PartnerID, &inv.CommercialPartnerID, &inv.ShippingPartnerID,
		&inv.PartnerBankID, &inv.PaymentReference, &inv.EDITransaction,
		&inv.AmountUntaxed, &inv.AmountTax, &inv.AmountTotal, &inv.AmountResidual,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	if inv.Company, err = r.getCompany(ctx, inv.CompanyID); err != nil {
		return nil, err
	}
	partners := NewPartnerRepository(r.q)
	if inv.Partner, err = partners.GetByID(ctx, inv.PartnerID); err != nil {
		return nil, err
	}
	inv.CommercialPartner = inv.Partner
	if inv.CommercialPartnerID != "" && inv.CommercialPartnerID != inv.PartnerID {
		if inv.CommercialPartner, err = partners.GetByID(ctx, inv.CommercialPartnerID); err != nil {
			return nil, err
		}
	}
	if inv.ShippingPartnerID != "" {
		if inv.ShippingPartner, err = partners.GetByID(ctx, inv.ShippingPartnerID); err != nil {
			return nil, err
		}
	}
	if inv.PartnerBankID != "" {
		if inv.PartnerBank, err = r.getBankAccount(ctx, inv.PartnerBankID); err != nil {
			return nil, err
		}
	}
	if inv.Lines, err = r.getLines(ctx, inv.ID); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) getCompany(ctx context.Context, id string) (*entity.Company, error) {
	const query = `
		SELECT id, name, partner_id, currency_code, credit_note_einvoice, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.PartnerID, &c.CurrencyCode, &c.CreditNoteEInvoice, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if c.Partner, err = NewPartnerRepository(r.q).GetByID(ctx, c.PartnerID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *InvoiceRepo) getBankAccount(ctx context.Context, id string) (*entity.BankAccount, error) {
	const query = `
		SELECT id, partner_id, iban, COALESCE(bank_name, ''), COALESCE(bic, '')
		FROM bank_accounts WHERE id = $1`
	var b entity.BankAccount
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.PartnerID, &b.IBAN, &b.BankName, &b.BIC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &b, nil
}

// getLines líneas en orden de secuencia, con sus impuestos.
func (r *InvoiceRepo) getLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	const query = `
		SELECT id, invoice_id, sequence, name, COALESCE(description, ''), COALESCE(product_code, ''),
		       COALESCE(unit_code, ''), quantity, price_unit, discount, COALESCE(account_id::text, '')
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY sequence, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	var lines []*entity.InvoiceLine
	byID := map[string]*entity.InvoiceLine{}
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Sequence, &l.Name, &l.Description, &l.ProductCode,
			&l.UnitCode, &l.Quantity, &l.PriceUnit, &l.Discount, &l.AccountID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, &l)
		byID[l.ID] = &l
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}

	const taxQuery = `
		SELECT lt.line_id, t.id, t.company_id, t.name, t.amount, t.amount_type, t.type_tax_use,
		       COALESCE(t.category_code, ''), COALESCE(t.exemption_reason_code, ''), COALESCE(t.exemption_reason, '')
		FROM invoice_line_taxes lt
		JOIN taxes t ON t.id = lt.tax_id
		JOIN invoice_lines l ON l.id = lt.line_id
		WHERE l.invoice_id = $1
		ORDER BY lt.line_id, t.sequence, t.id`
	taxRows, err := r.q.Query(ctx, taxQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list line taxes: %w", err)
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var lineID string
		var t entity.Tax
		if err := taxRows.Scan(&lineID, &t.ID, &t.CompanyID, &t.Name, &t.Amount, &t.AmountType, &t.TypeTaxUse,
			&t.CategoryCode, &t.ExemptionReasonCode, &t.ExemptionReason); err != nil {
			return nil, fmt.Errorf("scan line tax: %w", err)
		}
		if l, ok := byID[lineID]; ok {
			l.Taxes = append(l.Taxes, &t)
		}
	}
	return lines, taxRows.Err()
}

// Create persiste cabecera, líneas e impuestos de línea.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now

	const query = `
		INSERT INTO invoices (id, company_id, journal_id, name, ref, move_type, state, currency_code, currency_dp,
		                      invoice_date, due_date, partner_id, commercial_partner_id, shipping_partner_id,
		                      partner_bank_id, payment_reference, edi_transaction,
		                      amount_untaxed, amount_tax, amount_total, amount_residual, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, nullIfEmpty(inv.JournalID), inv.Name, nullIfEmpty(inv.Ref), inv.MoveType, inv.State,
		inv.CurrencyCode, inv.CurrencyDP, inv.InvoiceDate, inv.DueDate,
		nullIfEmpty(inv.PartnerID), nullIfEmpty(inv.CommercialPartnerID), nullIfEmpty(inv.ShippingPartnerID),
		nullIfEmpty(inv.PartnerBankID), nullIfEmpty(inv.PaymentReference), nullIfEmpty(inv.EDITransaction),
		inv.AmountUntaxed, inv.AmountTax, inv.AmountTotal, inv.AmountResidual, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura ya importada (%s)", domain.ErrConflict, inv.EDITransaction)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, l := range inv.Lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.InvoiceID = inv.ID
		if l.Sequence == 0 {
			l.Sequence = (i + 1) * 10
		}
		const lineQuery = `
			INSERT INTO invoice_lines (id, invoice_id, sequence, name, description, product_code, unit_code,
			                           quantity, price_unit, discount, account_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.InvoiceID, l.Sequence, l.Name, nullIfEmpty(l.Description), nullIfEmpty(l.ProductCode),
			nullIfEmpty(l.UnitCode), l.Quantity, l.PriceUnit, l.Discount, nullIfEmpty(l.AccountID),
		); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
		for _, t := range l.Taxes {
			if _, err := r.q.Exec(ctx,
				`INSERT INTO invoice_line_taxes (line_id, tax_id) VALUES ($1, $2)`, l.ID, t.ID,
			); err != nil {
				return fmt.Errorf("insert line tax: %w", err)
			}
		}
	}
	return nil
}
