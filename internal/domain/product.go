package domain

import "time"

// DateLayout is the storage and CLI format of product expiration dates.
const DateLayout = "2006-01-02"

// Product is a pantry item with an expiration date.
type Product struct {
	Name      string
	ExpiresOn time.Time // date only, local midnight
	Category  string
	Quantity  int
	Price     float64
}

// Expired reports whether the product is no longer usable on the given day.
// A product expiring today is already considered expired.
func (p Product) Expired(asOf time.Time) bool {
	return !p.ExpiresOn.After(truncateDay(asOf))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
