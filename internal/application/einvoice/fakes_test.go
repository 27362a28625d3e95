package einvoice_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/anaf"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memInvoices struct {
	mu   sync.Mutex
	byID map[string]*entity.Invoice
	seq  int
}

func newMemInvoices(invs ...*entity.Invoice) *memInvoices {
	m := &memInvoices{byID: map[string]*entity.Invoice{}}
	for _, inv := range invs {
		m.byID[inv.ID] = inv
	}
	return m
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv-imp-%d", m.seq)
	}
	m.byID[inv.ID] = inv
	return nil
}

type memAttachments struct {
	mu   sync.Mutex
	list []*entity.Attachment
}

func (m *memAttachments) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Attachment
	for _, a := range m.list {
		if a.ResID == invoiceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttachments) Create(_ context.Context, a *entity.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = fmt.Sprintf("att-%d", len(m.list)+1)
	}
	m.list = append(m.list, a)
	return nil
}

func (m *memAttachments) byMimetype(mt string) []*entity.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Attachment
	for _, a := range m.list {
		if a.Mimetype == mt {
			out = append(out, a)
		}
	}
	return out
}

type memMessages struct {
	posted []*entity.Message
	err    error
}

func (m *memMessages) Post(_ context.Context, msg *entity.Message) error {
	if m.err != nil {
		return m.err
	}
	m.posted = append(m.posted, msg)
	return nil
}

type memJournals map[string]*entity.Journal

func (m memJournals) GetByID(_ context.Context, id string) (*entity.Journal, error) {
	return m[id], nil
}

type memTaxes struct {
	taxes []*entity.Tax
}

func (m *memTaxes) FindZeroPercent(ctx context.Context, companyID, taxUse string) (*entity.Tax, error) {
	return m.FindByPercent(ctx, companyID, taxUse, decimal.Zero)
}

func (m *memTaxes) FindByPercent(_ context.Context, companyID, taxUse string, percent decimal.Decimal) (*entity.Tax, error) {
	for _, t := range m.taxes {
		if t.CompanyID == companyID && t.TypeTaxUse == taxUse && t.IsPercent() && t.Amount.Equal(percent) {
			return t, nil
		}
	}
	return nil, nil
}

type memPartners []*entity.Partner

func (m memPartners) FindByVAT(_ context.Context, _ string, vat string) (*entity.Partner, error) {
	for _, p := range m {
		if p.VAT == vat {
			return p, nil
		}
	}
	return nil, nil
}

// txRunner ejecuta fn sobre los mismos repos en memoria.
type txRunner struct {
	invoices    *memInvoices
	attachments *memAttachments
}

func (r txRunner) RunImport(_ context.Context, fn func(repository.InvoiceRepository, repository.AttachmentRepository) error) error {
	return fn(r.invoices, r.attachments)
}

// ──────────────────────────────────────────────────────────────────────────────
// Renderizadores
// ──────────────────────────────────────────────────────────────────────────────

type fakeANAF struct {
	res   anaf.Result
	calls int
	kind  string
	xml   []byte
}

func (f *fakeANAF) RenderPDF(_ context.Context, xml []byte, kind string) anaf.Result {
	f.calls++
	f.kind, f.xml = kind, xml
	return f.res
}

type fakeFallback struct {
	pdf   []byte
	err   error
	calls int
}

func (f *fakeFallback) RenderInvoice(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	f.calls++
	return f.pdf, f.err
}

var errRender = errors.New("render falló")
