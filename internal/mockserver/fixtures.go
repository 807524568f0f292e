package mockserver

import (
	"math"

	"github.com/diogo/estate/internal/models"
)

// listing is a raw property before the buy-vs-rent analysis
type listing struct {
	location string
	city     string
	price    float64
	area     *float64
	bhk      *float64
}

func f(v float64) *float64 { return &v }

var listings = []listing{
	{"Baner", "Pune", 8_500_000, f(1150), f(2)},
	{"Hinjewadi", "Pune", 5_200_000, f(780), f(1)},
	{"Kothrud", "Pune", 12_000_000, f(1400), f(3)},
	{"Wakad", "Pune", 6_900_000, f(980), f(2)},
	{"Andheri West", "Mumbai", 21_000_000, f(950), f(2)},
	{"Powai", "Mumbai", 17_500_000, f(1020), f(2)},
	{"Thane West", "Mumbai", 9_800_000, f(720), f(1)},
	{"Borivali East", "Mumbai", 13_200_000, nil, f(2)},
	{"Dwarka", "Delhi", 11_000_000, f(1250), f(3)},
	{"Rohini", "Delhi", 7_400_000, f(900), f(2)},
	{"Saket", "Delhi", 24_500_000, f(1600), nil},
	{"Whitefield", "Bangalore", 9_200_000, f(1300), f(2)},
	{"Electronic City", "Bangalore", 5_600_000, f(850), f(1)},
	{"Indiranagar", "Bangalore", 26_000_000, f(1800), f(3)},
}

const horizonYears = 20

// rentPerSqft estimates the monthly rent of a listing
const rentPerSqft = 20

// analyse runs a simplified buy-vs-rent comparison over every listing.
// Listings without an area cannot be rented out and keep a nil decision.
func analyse(p models.AnalysisParams) []models.Property {
	out := make([]models.Property, 0, len(listings))
	for _, l := range listings {
		prop := models.Property{
			Location: l.location,
			City:     l.city,
			Price:    f(l.price),
			AreaSqft: l.area,
			BHK:      l.bhk,
		}
		if l.area != nil {
			prop.PricePerSqft = f(math.Round(l.price / *l.area))

			buy := wealthBuying(l.price, p)
			rent := wealthRenting(l.price, *l.area, p)
			prop.WealthBuying = f(math.Round(buy))
			prop.WealthRenting = f(math.Round(rent))
			prop.Decision = models.DecisionRent
			if buy > rent {
				prop.Decision = models.DecisionBuy
			}
		}
		out = append(out, prop)
	}
	return out
}

// wealthBuying is the appreciated property value minus the after-tax interest paid
func wealthBuying(price float64, p models.AnalysisParams) float64 {
	loan := price * (1 - p.DownPaymentPercent/100)
	interest := loan * p.LoanRate / 100 * horizonYears / 2
	afterTax := interest * (1 - p.TaxRate/100)
	return price*math.Pow(1+p.AppreciationRate/100, horizonYears) - afterTax
}

// wealthRenting is the invested down payment and savings minus the rent paid
func wealthRenting(price, area float64, p models.AnalysisParams) float64 {
	down := price * p.DownPaymentPercent / 100
	invested := down * math.Pow(1+p.InvestRate/100, horizonYears)

	var rentPaid, saved float64
	monthly := area * rentPerSqft
	for year := 0; year < horizonYears; year++ {
		rentPaid += monthly * 12
		monthly *= 1 + p.RentEscalation/100
		saved = (saved + p.MonthlySaving*12) * (1 + p.InvestRate/100)
	}
	return invested + saved - rentPaid
}
