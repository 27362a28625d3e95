package ciusro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

func TestNeedsExemptTax(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{"Z único", []string{"Z"}, true},
		{"E único", []string{"E"}, true},
		{"O único", []string{"O"}, true},
		{"con espacios", []string{" Z "}, true},
		{"S único", []string{"S"}, false},
		{"AE único", []string{"AE"}, false},
		{"dos categorías", []string{"Z", "Z"}, false},
		{"sin categorías", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ciusro.NeedsExemptTax(tt.ids))
		})
	}
}

func TestTaxUseForJournal(t *testing.T) {
	assert.Equal(t, entity.TaxUseSale, ciusro.TaxUseForJournal(&entity.Journal{Type: entity.JournalTypeSale}))
	assert.Equal(t, entity.TaxUsePurchase, ciusro.TaxUseForJournal(&entity.Journal{Type: entity.JournalTypePurchase}))
	assert.Equal(t, entity.TaxUsePurchase, ciusro.TaxUseForJournal(nil))
}

func TestDefaultLineAccount(t *testing.T) {
	j := &entity.Journal{DefaultAccountID: "acc-604"}

	line := &entity.InvoiceLine{}
	assert.True(t, ciusro.DefaultLineAccount(line, j))
	assert.Equal(t, "acc-604", line.AccountID)

	withAccount := &entity.InvoiceLine{AccountID: "acc-628"}
	assert.False(t, ciusro.DefaultLineAccount(withAccount, j))
	assert.Equal(t, "acc-628", withAccount.AccountID)

	assert.False(t, ciusro.DefaultLineAccount(&entity.InvoiceLine{}, &entity.Journal{}))
}
