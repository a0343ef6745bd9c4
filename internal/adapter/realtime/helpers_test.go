package realtime_test

import "github.com/govalues/decimal"

func mustDecimal(s string) decimal.Decimal {
	return decimal.MustParse(s)
}
