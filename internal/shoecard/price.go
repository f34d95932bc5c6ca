package shoecard

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "$"

var (
	hundred      = decimal.NewFromInt(100)
	thousand     = decimal.NewFromInt(1000)
	maxGrouped   = decimal.NewFromInt(math.MaxInt64)
	pricePrinter = message.NewPrinter(language.AmericanEnglish)
)

// FormatPrice renders an amount in minor units (cents) as a dollar string,
// for example 10000 -> "$100.00" and 123456789 -> "$1,234,567.89".
// Fractional cents are rounded half to even, so 999.5 -> "$10.00" and
// 998.5 -> "$9.98".
func FormatPrice(minor decimal.Decimal) string {
	cents := minor.RoundBank(0)

	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Neg()
	}

	major := cents.Div(hundred).Truncate(0)
	rest := cents.Sub(major.Mul(hundred))

	return fmt.Sprintf("%s%s%s.%02d", sign, currencySymbol, groupMajor(major), rest.IntPart())
}

// groupMajor adds thousands separators to a non-negative whole amount.
// Amounts past int64 are split into three-digit groups first so IntPart
// never overflows.
func groupMajor(major decimal.Decimal) string {
	if major.LessThanOrEqual(maxGrouped) {
		return pricePrinter.Sprintf("%d", major.IntPart())
	}
	var groups []string
	for major.GreaterThan(maxGrouped) {
		groups = append(groups, fmt.Sprintf("%03d", major.Mod(thousand).IntPart()))
		major = major.Div(thousand).Truncate(0)
	}
	out := pricePrinter.Sprintf("%d", major.IntPart())
	for i := len(groups) - 1; i >= 0; i-- {
		out += "," + groups[i]
	}
	return out
}

// FormatPriceCents is FormatPrice for whole-cent integers.
func FormatPriceCents(cents int64) string {
	return FormatPrice(decimal.NewFromInt(cents))
}
