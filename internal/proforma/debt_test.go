package proforma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmortizationPayment_StandardPMT(t *testing.T) {
	// $100 debt, 10% rate, 1 year term: payment = principal + interest = 110.
	got := amortizationPayment(100, 10, 1)
	assert.InDelta(t, 110, got, 1e-9)
}

func TestAmortizationPayment_ZeroRateIsStraightLine(t *testing.T) {
	got := amortizationPayment(100, 0, 10)
	assert.InDelta(t, 10, got, 1e-9)
}

func TestAmortizationPayment_MultiYearRecoversPrincipalPlusInterest(t *testing.T) {
	debt := 1000.0
	rate := 6.5
	term := 20
	pmt := amortizationPayment(debt, rate, term)

	r := rate / 100
	balance := debt
	for y := 0; y < term; y++ {
		interest := balance * r
		principal := pmt - interest
		balance -= principal
	}
	assert.InDelta(t, 0, balance, 1e-6)
}
