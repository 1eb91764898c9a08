package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts são os formatos aceitos para colunas de data.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// toFloat converte um valor de célula para float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// toString formata um valor de célula; nil vira string vazia.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// equalValues compara dois valores normalizando números.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := rank(a), rank(b)
	if ra == 1 && rb == 1 {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	}
	if ra == 2 && rb == 2 {
		return a.(time.Time).Equal(b.(time.Time))
	}
	return toString(a) == toString(b)
}

// Compare ordena valores: nil primeiro, depois números, datas e textos.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		return 0
	case 1:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return a.(time.Time).Compare(b.(time.Time))
	}
	return strings.Compare(toString(a), toString(b))
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64, float32, int, int32, int64:
		return 1
	case time.Time:
		return 2
	}
	return 3
}

// key normaliza um valor para uso como chave de mapa.
func key(v any) any {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case time.Time:
		return x.UTC()
	}
	return v
}

// InferColumn converte os textos brutos de uma coluna para o tipo mais específico
// que todos os valores não vazios aceitam: float64, time.Time ou string.
// Células vazias viram nil.
func InferColumn(raw []string) []any {
	numeric, dated := true, true
	nonEmpty := 0
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		nonEmpty++
		if numeric {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
		}
		if dated {
			if _, ok := parseTime(s); !ok {
				dated = false
			}
		}
		if !numeric && !dated {
			break
		}
	}

	out := make([]any, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		switch {
		case nonEmpty > 0 && numeric:
			out[i], _ = strconv.ParseFloat(s, 64)
		case nonEmpty > 0 && dated:
			out[i], _ = parseTime(s)
		default:
			out[i] = s
		}
	}
	return out
}
