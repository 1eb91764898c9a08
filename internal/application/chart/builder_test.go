package chart

import (
	"math"
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
)

func f(v float64) *float64 { return &v }

func fiveMonthTrend() entity.CumulativeTrend {
	labels := []string{"Jul'24", "Aug'24", "Sep'24", "Oct'24", "Nov'24", "Dec'24", "Jan'25", "Feb'25", "Mar'25", "Apr'25", "May'25", "Jun'25"}
	cum := make([]*float64, 12)
	for i, v := range []float64{100000, 200000, 320000, 400000, 500000} {
		cum[i] = f(v)
	}
	pacing := make([]float64, 12)
	for i := range pacing {
		pacing[i] = 150000 * float64(i+1)
	}
	return entity.CumulativeTrend{
		FiscalYear:   "FY2024-2025",
		AmountType:   entity.AmountActual,
		Labels:       labels,
		Cumulative:   cum,
		Pacing:       pacing,
		CurrentMonth: 5,
		Current:      500000,
		Target:       1_800_000,
		Achieved:     500000.0 / 1_800_000,
	}
}

func TestCumulativeChart(t *testing.T) {
	c := NewBuilder().Cumulative(fiveMonthTrend())
	if c.ID != entity.ChartCumulative || len(c.XLabels) != 12 {
		t.Fatalf("unexpected chart header %+v", c)
	}
	sel := c.Series[0]
	if len(sel.Points) != 12 || sel.Points[11].Y != nil || sel.Points[4].Text != "$500,000.0" {
		t.Fatalf("unexpected selected series %+v", sel.Points)
	}
	current := c.Markers[0]
	if current.X != "Nov'24" || *current.Y != 500000 || current.Text != "27.78% Achieved" {
		t.Fatalf("unexpected current marker %+v", current)
	}
	goal := c.Series[2]
	if goal.Name != "Target" || goal.Points[0].X != "Nov'24" || goal.Points[1].X != "Jun'25" || *goal.Points[1].Y != 1_800_000 {
		t.Fatalf("unexpected goal line %+v", goal)
	}
	if c.Markers[1].Text != "Target: $1,800,000.0" {
		t.Fatalf("unexpected target marker %q", c.Markers[1].Text)
	}
}

func TestMilestoneReferences(t *testing.T) {
	refs := MilestoneReferences(1_800_000, 500000)
	want := []string{"$0.5M (25%) Achieved", "$0.9M (50%)", "$1.4M (75%)", "$1.8M Target"}
	for i, w := range want {
		if refs[i].Label != w {
			t.Fatalf("milestone %d: got %q, want %q", i, refs[i].Label, w)
		}
	}
	if !refs[0].Achieved || refs[1].Achieved {
		t.Fatalf("unexpected achieved flags %+v", refs)
	}
	done := MilestoneReferences(1_800_000, 2_000_000)
	if done[3].Label != "$1.8M Target Achieved" {
		t.Fatalf("unexpected final milestone %q", done[3].Label)
	}
}

func TestMilestoneReferencesNonFiniteTarget(t *testing.T) {
	refs := MilestoneReferences(math.NaN(), 500000)
	if len(refs) != len(Milestones) || refs[3].Label != "n/a Target" || refs[3].Achieved {
		t.Fatalf("unexpected milestones %+v", refs)
	}
}

func TestCumulativeChartWithoutData(t *testing.T) {
	tr := fiveMonthTrend()
	tr.CurrentMonth, tr.Current, tr.Achieved = 0, 0, 0
	tr.Cumulative = make([]*float64, 12)
	c := NewBuilder().Cumulative(tr)
	if len(c.Series) != 2 || len(c.Markers) != 1 {
		t.Fatalf("no current marker or goal line without data: %+v", c)
	}
}

func TestDumbbellKeepsRankingOrder(t *testing.T) {
	r := entity.Ranking{
		SelectedFY: "FY2024-2025",
		PriorFY:    "FY2023-2024",
		TopN:       2,
		Rows: []entity.RankRow{
			{Chapter: "A", Selected: 100, Prior: 90, Total: 190},
			{Chapter: "B", Selected: 80, Prior: 70, Total: 150},
			{Chapter: "Other", Selected: 6, Total: 6},
		},
	}
	c := NewBuilder().Dumbbell(r)
	if len(c.XLabels) != 3 || c.XLabels[2] != "Other" {
		t.Fatalf("unexpected category order %v", c.XLabels)
	}
	if c.Series[0].Name != "FY2023-2024" || *c.Series[1].Points[0].Y != 100 {
		t.Fatalf("unexpected series %+v", c.Series)
	}
}

func TestSankeyTitle(t *testing.T) {
	b := NewBuilder()
	g := entity.FlowGraph{Mode: entity.ViewTarget, TargetTotal: 1_200_000, Nodes: []entity.FlowNode{{Name: "Chapter"}}}
	c := b.Sankey(g)
	want := "Annualized Run Rate Flow (What it would take to reach $1.2M) : Chapter Type → Frequency → Current ARR & Remaining"
	if c.Title != want {
		t.Fatalf("unexpected title %q", c.Title)
	}
	if c.Flow == nil || c.Flow.Mode != entity.ViewTarget {
		t.Fatalf("flow graph must be attached")
	}
}

func TestAttritionChartTargetReference(t *testing.T) {
	tr := entity.MonthlyTrend{
		Labels: []string{"Jul'24"},
		Series: []entity.Series{{Name: "Attrition Rate", Values: []*float64{f(0.25)}}},
	}
	c := NewBuilder().Attrition(tr, 18)
	if c.References[0].Value != 0.18 || c.References[0].Label != "18% Target" {
		t.Fatalf("unexpected reference %+v", c.References)
	}
	if c.Series[0].Points[0].Text != "25.00%" {
		t.Fatalf("unexpected point text %q", c.Series[0].Points[0].Text)
	}
}
