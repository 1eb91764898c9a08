// Package format formata valores para exibição, arredondando com decimal
// para não herdar ruído de ponto flutuante nos rótulos.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money formata um valor em dólar com separador de milhar: "$1,234.56".
func Money(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	s := decimal.NewFromFloat(v).StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	return sign + "$" + group(s)
}

// Count formata um inteiro com separador de milhar.
func Count(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return group(decimal.NewFromFloat(v).StringFixed(0))
}

// Percent formata uma razão (0.25) como "25.00%".
func Percent(ratio float64, places int32) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(places) + "%"
}

// Millions formata um valor em milhões com uma casa: "$1.8M".
func Millions(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return "$" + decimal.NewFromFloat(v).Shift(-6).StringFixed(1) + "M"
}

// Round arredonda v para places casas decimais.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func group(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
