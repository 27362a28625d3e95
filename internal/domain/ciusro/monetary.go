package ciusro

import (
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// UsesNegativeCreditNote indica si la factura es una nota de crédito de venta y la compañía
// tiene activa la convención ANAF de importes negativos.
func UsesNegativeCreditNote(inv *entity.Invoice) bool {
	if inv == nil || inv.Company == nil {
		return false
	}
	return inv.MoveType == entity.MoveTypeOutRefund && inv.Company.CreditNoteEInvoice
}

// NegateAmounts invierte el signo de todos los importes con signo del documento:
// totales de impuesto (documento y línea), bases imponibles, cantidades, importes de
// línea y los cuatro totales legales (sin impuestos, con impuestos, prepagado, a pagar).
//
// Es una negación pura: aplicarla dos veces deja el documento como estaba.
func NegateAmounts(vals *ubl.InvoiceVals) {
	for i := range vals.TaxTotals {
		tt := &vals.TaxTotals[i]
		tt.TaxAmount = tt.TaxAmount.Neg()
		negateSubtotals(tt.Subtotals)
	}
	for i := range vals.Lines {
		line := &vals.Lines[i]
		line.InvoicedQuantity = line.InvoicedQuantity.Neg()
		line.LineExtensionAmount = line.LineExtensionAmount.Neg()
		negateSubtotals(line.TaxTotals)
	}
	if lmt := vals.LegalMonetaryTotal; lmt != nil {
		lmt.TaxExclusiveAmount = lmt.TaxExclusiveAmount.Neg()
		lmt.TaxInclusiveAmount = lmt.TaxInclusiveAmount.Neg()
		lmt.PrepaidAmount = lmt.PrepaidAmount.Neg()
		lmt.PayableAmount = lmt.PayableAmount.Neg()
	}
}

func negateSubtotals(subs []ubl.TaxSubtotalVals) {
	for i := range subs {
		subs[i].TaxableAmount = subs[i].TaxableAmount.Neg()
		subs[i].TaxAmount = subs[i].TaxAmount.Neg()
	}
}

func applyCreditNoteSign(in Input, doc *ubl.Document) {
	if !UsesNegativeCreditNote(in.Invoice) {
		return
	}
	NegateAmounts(&doc.Vals)
}
