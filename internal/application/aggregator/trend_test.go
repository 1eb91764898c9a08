package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

func fiveMonthPayments() []payment {
	return []payment{
		{fy: "FY2024-2025", fm: 1, amount: 100000, cf: 70000, freqType: "Recurring"},
		{fy: "FY2024-2025", fm: 2, amount: 50000, cf: 35000, freqType: "One-Time"},
		{fy: "FY2024-2025", fm: 2, amount: 50000, cf: 35000, freqType: "Recurring"},
		{fy: "FY2024-2025", fm: 3, amount: 120000, cf: 84000, freqType: "Recurring"},
		{fy: "FY2024-2025", fm: 4, amount: 80000, cf: 56000, freqType: "One-Time"},
		{fy: "FY2024-2025", fm: 5, amount: 100000, cf: 70000, freqType: nil},
		{fy: "FY2024-2025", fm: 5, amount: 999999, portfolio: "One for the World Operating Costs"},
		{fy: "FY2023-2024", fm: 1, amount: 600000},
		{fy: "FY2023-2024", fm: 7, amount: 300000},
		{fy: "FY2023-2024", fm: 12, amount: 300000},
	}
}

func TestCumulativePartialYear(t *testing.T) {
	trend := NewTrendAggregator(catalog(t, mergedTable(t, fiveMonthPayments())), DefaultOptions())
	got, err := trend.Cumulative("FY2024-2025", entity.AmountActual, 1_800_000)
	if err != nil {
		t.Fatalf("Cumulative failed: %v", err)
	}
	if len(got.Labels) != 12 || got.Labels[0] != "Jul'24" || got.Labels[4] != "Nov'24" || got.Labels[11] != "Jun'25" {
		t.Fatalf("unexpected labels %v", got.Labels)
	}
	if got.CurrentMonth != 5 {
		t.Fatalf("expected current month 5 (Nov), got %d", got.CurrentMonth)
	}
	if got.Current != 500000 {
		t.Fatalf("expected $500,000 to date, got %v", got.Current)
	}
	if got.Achieved != 500000.0/1_800_000 {
		t.Fatalf("unexpected achieved %v", got.Achieved)
	}
	for i := 5; i < 12; i++ {
		if got.Cumulative[i] != nil || got.Monthly[i] != nil {
			t.Fatalf("month %d should be padded with nil", i+1)
		}
	}
	if n := len(got.Cumulative); n != 12 {
		t.Fatalf("expected 12 positions, got %d", n)
	}
}

func TestCumulativeIsMonotonic(t *testing.T) {
	payments := []payment{
		{fy: "FY2024-2025", fm: 1, amount: 10},
		{fy: "FY2024-2025", fm: 3, amount: 0},
		{fy: "FY2024-2025", fm: 4, amount: 7},
		{fy: "FY2024-2025", fm: 9, amount: 1},
	}
	trend := NewTrendAggregator(catalog(t, mergedTable(t, payments)), DefaultOptions())
	got, err := trend.Cumulative("FY2024-2025", entity.AmountActual, 100)
	if err != nil {
		t.Fatalf("Cumulative failed: %v", err)
	}
	prev := 0.0
	for i := 0; i < got.CurrentMonth; i++ {
		if got.Cumulative[i] == nil {
			t.Fatalf("month %d before the current month must not be nil", i+1)
		}
		if *got.Cumulative[i] < prev {
			t.Fatalf("cumulative decreased at month %d", i+1)
		}
		prev = *got.Cumulative[i]
	}
	if *got.Monthly[1] != 0 {
		t.Fatalf("gap months before the current month count as zero")
	}
}

func TestPacingFollowsPriorSeasonality(t *testing.T) {
	trend := NewTrendAggregator(catalog(t, mergedTable(t, fiveMonthPayments())), DefaultOptions())
	got, err := trend.Cumulative("FY2024-2025", entity.AmountActual, 1_800_000)
	if err != nil {
		t.Fatalf("Cumulative failed: %v", err)
	}
	if got.Pacing[0] != 900000 {
		t.Fatalf("July held half of prior-year money moved, got pacing %v", got.Pacing[0])
	}
	if got.Pacing[5] != 900000 || got.Pacing[6] != 1_350_000 {
		t.Fatalf("unexpected pacing %v", got.Pacing)
	}
	if math.Abs(got.Pacing[11]-1_800_000) > 1e-6 {
		t.Fatalf("pacing must end at the target, got %v", got.Pacing[11])
	}
}

func TestPacingWithoutHistoryIsLinear(t *testing.T) {
	p := Pacing(make([]float64, 12), 1200)
	if p[0] != 100 || p[11] != 1200 {
		t.Fatalf("unexpected linear pacing %v", p)
	}
}

func TestMonthlyDrilldownSplitsByFirstAppearance(t *testing.T) {
	payments := []payment{
		{fy: "FY2024-2025", fm: 2, amount: 5, platform: "PayPal"},
		{fy: "FY2024-2025", fm: 1, amount: 10, platform: "Stripe"},
		{fy: "FY2024-2025", fm: 1, amount: 3, platform: nil},
		{fy: "FY2024-2025", fm: 2, amount: 4, platform: "Stripe"},
	}
	trend := NewTrendAggregator(catalog(t, mergedTable(t, payments)), DefaultOptions())
	got, err := trend.Monthly("FY2024-2025", entity.AmountActual, ColPaymentPlatform)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	names := []string{}
	for _, s := range got.Series {
		names = append(names, s.Name)
	}
	if len(names) != 3 || names[0] != "Stripe" || names[1] != entity.LabelUnknown || names[2] != "PayPal" {
		t.Fatalf("unexpected series order %v", names)
	}
	if *got.Series[0].Values[1] != 4 || got.Series[2].Values[0] != nil {
		t.Fatalf("drilldown values are raw monthly sums")
	}

	plain, err := trend.Monthly("FY2024-2025", entity.AmountActual, "")
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if len(plain.Series) != 1 || plain.Series[0].Name != "MM" || *plain.Series[0].Values[0] != 13 {
		t.Fatalf("unexpected plain series %+v", plain.Series)
	}
}

func TestMonthlyRejectsUnknownDrilldown(t *testing.T) {
	trend := NewTrendAggregator(catalog(t, mergedTable(t, nil)), DefaultOptions())
	if _, err := trend.Monthly("FY2024-2025", entity.AmountActual, "payment_portfolio"); !errors.Is(err, types.ErrInvalidDrilldown) {
		t.Fatalf("expected ErrInvalidDrilldown, got %v", err)
	}
	if _, err := trend.Monthly("FY2024-2025", "usd", ""); !errors.Is(err, types.ErrInvalidAmountType) {
		t.Fatalf("expected ErrInvalidAmountType, got %v", err)
	}
}

func TestFrequencyBreakdownSumsToMonthlyTotal(t *testing.T) {
	trend := NewTrendAggregator(catalog(t, mergedTable(t, fiveMonthPayments())), DefaultOptions())
	split, err := trend.FrequencyBreakdown("FY2024-2025")
	if err != nil {
		t.Fatalf("FrequencyBreakdown failed: %v", err)
	}
	plain, err := trend.Monthly("FY2024-2025", entity.AmountActual, "")
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if len(split.Series) != 3 || split.Series[0].Name != FrequencyRecurring || split.Series[0].Color != "#0078D4" {
		t.Fatalf("unexpected fixed categories %+v", split.Series)
	}
	for m := 0; m < 12; m++ {
		var sum float64
		for _, s := range split.Series {
			if s.Values[m] != nil {
				sum += *s.Values[m]
			}
		}
		want := 0.0
		if plain.Series[0].Values[m] != nil {
			want = *plain.Series[0].Values[m]
		}
		if sum != want {
			t.Fatalf("month %d: split sum %v != total %v", m+1, sum, want)
		}
	}
	if *split.Series[2].Values[4] != 100000 {
		t.Fatalf("null frequency types count as Unspecified")
	}
}

func attritionRecords() []map[string]any {
	rec := func(fm, total, cancelled float64, chapterType, platform any) map[string]any {
		return map[string]any{
			ColPledgeStartFY:         "FY2024-2025",
			ColPledgeStartFM:         fm,
			ColTotalPledgeCount:      total,
			ColCancelledCount:        cancelled,
			ColPledgeChapterType:     chapterType,
			ColPledgePaymentPlatform: platform,
		}
	}
	return []map[string]any{
		rec(1, 10, 2, "Chapter", "Stripe"),
		rec(1, 10, 3, "Corporate", "PayPal"),
		rec(2, 0, 0, "Chapter", "Stripe"),
		rec(8, 4, 1, "Chapter", nil),
		rec(9, 10, 10, "Chapter", "Stripe"),
		rec(11, 10, 10, "Corporate", "Stripe"),
	}
}

func TestAttritionTrendAppliesCutoffAndGuard(t *testing.T) {
	tbl := table(t, DatasetAttrition, RequiredColumns[DatasetAttrition], attritionRecords())
	trend := NewTrendAggregator(catalog(t, tbl), DefaultOptions())
	got, err := trend.Attrition("FY2024-2025", "")
	if err != nil {
		t.Fatalf("Attrition failed: %v", err)
	}
	if len(got.Series) != 1 {
		t.Fatalf("expected a single series, got %d", len(got.Series))
	}
	values := got.Series[0].Values
	if *values[0] != 0.25 {
		t.Fatalf("expected 5/20 in July, got %v", *values[0])
	}
	if values[1] != nil {
		t.Fatalf("zero-pledge month must be nil, got %v", *values[1])
	}
	if values[8] != nil || values[10] != nil {
		t.Fatalf("months from the cutoff on must be dropped")
	}

	opts := DefaultOptions()
	opts.AttritionCutoffs = nil
	uncut, err := NewTrendAggregator(catalog(t, tbl), opts).Attrition("FY2024-2025", "")
	if err != nil {
		t.Fatalf("Attrition failed: %v", err)
	}
	if uncut.Series[0].Values[10] == nil || *uncut.Series[0].Values[10] != 1 {
		t.Fatalf("without a cutoff every month is kept")
	}
}

func TestAttritionTrendDrilldown(t *testing.T) {
	tbl := table(t, DatasetAttrition, RequiredColumns[DatasetAttrition], attritionRecords())
	trend := NewTrendAggregator(catalog(t, tbl), DefaultOptions())
	got, err := trend.Attrition("FY2024-2025", ColPledgePaymentPlatform)
	if err != nil {
		t.Fatalf("Attrition failed: %v", err)
	}
	if len(got.Series) != 3 || got.Series[2].Name != entity.LabelUnknown {
		t.Fatalf("unexpected series %+v", got.Series)
	}
	if *got.Series[1].Values[0] != 0.3 {
		t.Fatalf("expected PayPal July rate 0.3, got %v", *got.Series[1].Values[0])
	}
	if _, err := trend.Attrition("FY2024-2025", ColPaymentPlatform); !errors.Is(err, types.ErrInvalidDrilldown) {
		t.Fatalf("payment_platform is not an attrition dimension, got %v", err)
	}
}

func TestAttritionRateGuard(t *testing.T) {
	if r := AttritionRate(0, 0); !math.IsNaN(r) {
		t.Fatalf("expected NaN for zero denominator, got %v", r)
	}
	if r := AttritionRate(3, 12); r != 0.25 {
		t.Fatalf("expected 0.25, got %v", r)
	}
}
