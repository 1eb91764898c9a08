// Package fiscal mapeia datas do calendário para o ano fiscal iniciado em julho.
package fiscal

import (
	"fmt"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

const (
	// StartMonth é o primeiro mês do ano fiscal (FM1).
	StartMonth = time.July
	// MonthsPerYear é o número de meses fiscais.
	MonthsPerYear = 12
)

// Label retorna o rótulo do ano fiscal que começa em startYear, ex.: "FY2024-2025".
func Label(startYear int) string {
	return fmt.Sprintf("FY%d-%d", startYear, startYear+1)
}

// Parse extrai o ano de início de um rótulo "FY{start}-{start+1}".
func Parse(label string) (int, error) {
	var start, end int
	if _, err := fmt.Sscanf(label, "FY%d-%d", &start, &end); err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidFiscalYear, label)
	}
	if end != start+1 || Label(start) != label {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidFiscalYear, label)
	}
	return start, nil
}

// Prior retorna o rótulo do ano fiscal anterior.
// Não consulta calendário: o rótulo já carrega os dois anos.
func Prior(label string) (string, error) {
	start, err := Parse(label)
	if err != nil {
		return "", err
	}
	return Label(start - 1), nil
}

// Month converte um mês do calendário no índice fiscal 1..12 (julho = 1).
func Month(m time.Month) int {
	return (int(m)-int(StartMonth)+MonthsPerYear)%MonthsPerYear + 1
}

// FromDate retorna o rótulo do ano fiscal e o mês fiscal de uma data.
func FromDate(t time.Time) (string, int) {
	start := t.Year()
	if t.Month() < StartMonth {
		start--
	}
	return Label(start), Month(t.Month())
}

// CalendarMonth é a operação inversa: dado um ano fiscal e um mês fiscal,
// devolve o ano e o mês do calendário correspondentes.
func CalendarMonth(label string, fm int) (int, time.Month, error) {
	start, err := Parse(label)
	if err != nil {
		return 0, 0, err
	}
	if fm < 1 || fm > MonthsPerYear {
		return 0, 0, fmt.Errorf("%w: %d", types.ErrInvalidFiscalMonth, fm)
	}
	offset := int(StartMonth) - 1 + fm - 1
	return start + offset/MonthsPerYear, time.Month(offset%MonthsPerYear + 1), nil
}

// MonthLabel formata o mês fiscal como "Jul'24".
func MonthLabel(label string, fm int) (string, error) {
	year, month, err := CalendarMonth(label, fm)
	if err != nil {
		return "", err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("Jan'06"), nil
}

// MonthLabels devolve os 12 rótulos do eixo x de um ano fiscal, FM1..FM12.
func MonthLabels(label string) ([]string, error) {
	labels := make([]string, 0, MonthsPerYear)
	for fm := 1; fm <= MonthsPerYear; fm++ {
		l, err := MonthLabel(label, fm)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// Before reporta se o ano fiscal a começa antes de b.
func Before(a, b string) (bool, error) {
	sa, err := Parse(a)
	if err != nil {
		return false, err
	}
	sb, err := Parse(b)
	if err != nil {
		return false, err
	}
	return sa < sb, nil
}
