package aggregator

import (
	"errors"
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

func pledgeRecords() []map[string]any {
	rec := func(donor float64, status, fy string) map[string]any {
		return map[string]any{ColDonorID: donor, ColPledgeStatus: status, ColPledgeStartFY: fy}
	}
	return []map[string]any{
		rec(1, StatusActiveDonor, "FY2023-2024"),
		rec(1, StatusActiveDonor, "FY2024-2025"),
		rec(2, StatusOneTime, "FY2024-2025"),
		rec(3, "Cancelled", "FY2024-2025"),
		rec(4, StatusActiveDonor, "FY2025-2026"),
		rec(5, StatusActiveDonor, "FY2022-2023"),
	}
}

func kpiCatalogTables(t *testing.T) *KPIAggregator {
	t.Helper()
	c := catalog(t,
		mergedTable(t, fiveMonthPayments()),
		table(t, DatasetPledges, RequiredColumns[DatasetPledges], pledgeRecords()),
		table(t, DatasetActiveARR, RequiredColumns[DatasetActiveARR], arrRecords()),
		table(t, DatasetAttrition, RequiredColumns[DatasetAttrition], attritionRecords()),
	)
	return NewKPIAggregator(c, DefaultOptions())
}

func TestKPICompute(t *testing.T) {
	set, err := kpiCatalogTables(t).Compute("FY2024-2025", entity.DefaultTargets())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	cases := []struct {
		key   string
		value float64
	}{
		{entity.TargetMoneyMoved, 500000},
		{entity.TargetCounterfactualMM, 350000},
		{entity.TargetActiveARR, 600000},
		{entity.TargetActiveDonors, 3},
		{entity.TargetActivePledges, 2},
	}
	for _, c := range cases {
		k, ok := set.Find(c.key)
		if !ok {
			t.Fatalf("missing kpi %s", c.key)
		}
		if k.Value != c.value {
			t.Fatalf("%s = %v, want %v", c.key, k.Value, c.value)
		}
	}
	mm, _ := set.Find(entity.TargetMoneyMoved)
	if mm.PercentOfGoal != 500000.0/1_800_000 {
		t.Fatalf("percent of goal keeps full precision, got %v", mm.PercentOfGoal)
	}
	if mm.Display != "$500,000.00" || mm.GoalDisplay != "of $1,800,000 Target (27.78%)" {
		t.Fatalf("unexpected display %q / %q", mm.Display, mm.GoalDisplay)
	}
	attr, _ := set.Find(entity.TargetPledgeAttrition)
	if !attr.Defined || attr.Value != 26.0/44*100 {
		t.Fatalf("expected attrition over the whole year (26/44), got %+v", attr)
	}
}

func TestKPIAttritionIgnoresTrendCutoff(t *testing.T) {
	c := catalog(t,
		mergedTable(t, fiveMonthPayments()),
		table(t, DatasetPledges, RequiredColumns[DatasetPledges], pledgeRecords()),
		table(t, DatasetActiveARR, RequiredColumns[DatasetActiveARR], arrRecords()),
		table(t, DatasetAttrition, RequiredColumns[DatasetAttrition], attritionRecords()),
	)
	withCutoff := DefaultOptions()
	withoutCutoff := DefaultOptions()
	withoutCutoff.AttritionCutoffs = nil

	var got []float64
	for _, opts := range []Options{withCutoff, withoutCutoff} {
		set, err := NewKPIAggregator(c, opts).Compute("FY2024-2025", entity.DefaultTargets())
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		attr, _ := set.Find(entity.TargetPledgeAttrition)
		got = append(got, attr.Value)
	}
	if got[0] != got[1] {
		t.Fatalf("cutoff changed the attrition card: %v vs %v", got[0], got[1])
	}
}

func TestKPIAttritionUndefinedWithoutPledges(t *testing.T) {
	set, err := kpiCatalogTables(t).Compute("FY2030-2031", entity.DefaultTargets())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	attr, _ := set.Find(entity.TargetPledgeAttrition)
	if attr.Defined || attr.Display != "n/a" {
		t.Fatalf("expected undefined attrition, got %+v", attr)
	}
	mm, _ := set.Find(entity.TargetMoneyMoved)
	if mm.Value != 0 || mm.PercentOfGoal != 0 {
		t.Fatalf("empty year must give zero money moved, got %+v", mm)
	}
}

func TestKPIRequiresFiscalYear(t *testing.T) {
	if _, err := kpiCatalogTables(t).Compute("", nil); !errors.Is(err, types.ErrMissingFilterValue) {
		t.Fatalf("expected ErrMissingFilterValue, got %v", err)
	}
}

func TestKPIUsesCustomTargets(t *testing.T) {
	targets := entity.DefaultTargets().Merge(map[string]float64{entity.TargetMoneyMoved: 1_000_000})
	set, err := kpiCatalogTables(t).Compute("FY2024-2025", targets)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	mm, _ := set.Find(entity.TargetMoneyMoved)
	if mm.PercentOfGoal != 0.5 {
		t.Fatalf("expected 50%% of a $1M goal, got %v", mm.PercentOfGoal)
	}
}
