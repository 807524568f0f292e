package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for values the backend sent as null
const NotAvailable = "N/A"

// FormatNumber rounds half up to an integer and inserts thousands separators.
// 1234567.5 becomes "1,234,568".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return message.NewPrinter(language.English).Sprintf("%d", int64(math.Floor(v+0.5)))
}

// FormatRupees formats an amount as "₹1,234", or N/A when it is missing
func FormatRupees(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	s := FormatNumber(*v)
	if s == NotAvailable {
		return s
	}
	return "₹" + s
}

// FormatOptional formats a plain number, or N/A when it is missing
func FormatOptional(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatNumber(*v)
}

// Percent returns part/total as a whole percentage; 0 when total is 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
