package checkout

// Payment statuses persisted to the payment worksheet.
const (
	StatusPaid   = "Lunas"
	StatusUnpaid = "Belum Lunas"
)

// RoundTotal applies the shop's nearest-5000 rounding on the thousands
// digit: 123456 rounds down to 120000, 127000 rounds to 125000. The
// adjustment is final minus total and can be negative.
func RoundTotal(total int64) (final, adjustment int64) {
	d := (total / 1000) % 10
	base := (total / 10000) * 10000
	final = base
	if d >= 5 {
		final = base + 5000
	}
	return final, final - total
}

// SettlePayment derives the payment status and the signed remainder.
// Remainder is tendered minus final: positive means change, negative means
// an outstanding balance.
func SettlePayment(final, tendered int64) (status string, remainder int64) {
	remainder = tendered - final
	if remainder >= 0 {
		return StatusPaid, remainder
	}
	return StatusUnpaid, remainder
}
