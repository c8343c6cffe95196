package proforma

import "math"

// amortizationPayment computes the fixed annual payment for a loan of
// principal debt at annual rate rPct over termYears (spec §4.3). At r = 0
// the standard PMT formula is 0/0; the source's degenerate case is
// straight-line principal, so the payment is simply debt / termYears.
func amortizationPayment(debt, rPct float64, termYears int) float64 {
	r := rPct / 100
	if r == 0 {
		return debt / float64(termYears)
	}
	pow := math.Pow(1+r, float64(termYears))
	return debt * r * pow / (pow - 1)
}
