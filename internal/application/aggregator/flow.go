package aggregator

import (
	"fmt"
	"math"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// FlowAggregator monta o grafo tipo de capítulo → frequência → ARR.
type FlowAggregator struct {
	src  Source
	opts Options
}

// NewFlowAggregator cria o agregador de fluxo.
func NewFlowAggregator(src Source, opts Options) *FlowAggregator {
	return &FlowAggregator{src: src, opts: opts}
}

// ARRFlow agrupa o ARR ativo do ano fiscal por (tipo de capítulo, frequência).
// No modo target, a meta é distribuída proporcionalmente ao ARR real de cada
// grupo e a diferença positiva vira "Gap to Target".
func (a *FlowAggregator) ARRFlow(fy string, mode entity.ViewMode) (entity.FlowGraph, error) {
	if mode != entity.ViewActual && mode != entity.ViewTarget {
		return entity.FlowGraph{}, fmt.Errorf("%w: %q", types.ErrInvalidViewMode, mode)
	}
	v, err := a.src.Filter(DatasetActiveARR, dataset.Eq(ColPledgeStartFY, fy))
	if err != nil {
		return entity.FlowGraph{}, fmt.Errorf("arr flow: %w", err)
	}
	if v, err = v.Select(ColPledgeChapterType, ColPledgeFrequency, ColContributionARR); err != nil {
		return entity.FlowGraph{}, fmt.Errorf("arr flow: %w", err)
	}
	f := v.Collect()

	var groups []entity.FlowGroup
	index := map[[2]string]int{}
	for i := 0; i < f.Len(); i++ {
		k := [2]string{category(f.String(i, ColPledgeChapterType)), category(f.String(i, ColPledgeFrequency))}
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, entity.FlowGroup{ChapterType: k[0], Frequency: k[1]})
		}
		groups[pos].Actual += f.Float(i, ColContributionARR)
	}
	g := BuildFlow(groups, mode, a.opts.ARRTarget)
	g.FiscalYear = fy
	return g, nil
}

// BuildFlow distribui a meta (modo target) e monta nós e arestas.
func BuildFlow(groups []entity.FlowGroup, mode entity.ViewMode, target float64) entity.FlowGraph {
	g := entity.FlowGraph{Mode: mode, TargetTotal: target}
	groups = append([]entity.FlowGroup(nil), groups...)
	for _, gr := range groups {
		g.ActualTotal += gr.Actual
	}
	if mode == entity.ViewTarget {
		for i := range groups {
			if g.ActualTotal > 0 {
				groups[i].TargetShare = groups[i].Actual / g.ActualTotal * target
			}
			groups[i].Gap = math.Max(0, groups[i].TargetShare-groups[i].Actual)
			g.GapTotal += groups[i].Gap
		}
	}
	g.Groups = groups

	weight := func(gr entity.FlowGroup) float64 {
		if mode == entity.ViewTarget {
			return gr.Actual + gr.Gap
		}
		return gr.Actual
	}

	var chapters, freqs []string
	chapterTotal := map[string]float64{}
	freqActual := map[string]float64{}
	freqGap := map[string]float64{}
	for _, gr := range groups {
		if _, ok := chapterTotal[gr.ChapterType]; !ok {
			chapters = append(chapters, gr.ChapterType)
		}
		if _, ok := freqActual[gr.Frequency]; !ok {
			freqs = append(freqs, gr.Frequency)
		}
		chapterTotal[gr.ChapterType] += weight(gr)
		freqActual[gr.Frequency] += gr.Actual
		freqGap[gr.Frequency] += gr.Gap
	}

	// Um mesmo rótulo pode aparecer como tipo de capítulo e como frequência.
	freqName := map[string]string{}
	for _, fr := range freqs {
		name := fr
		if _, clash := chapterTotal[fr]; clash {
			name = fr + " (frequency)"
		}
		freqName[fr] = name
	}

	for _, ch := range chapters {
		g.Nodes = append(g.Nodes, entity.FlowNode{Name: ch, Stage: 0, Total: chapterTotal[ch]})
	}
	for _, fr := range freqs {
		total := freqActual[fr]
		if mode == entity.ViewTarget {
			total += freqGap[fr]
		}
		g.Nodes = append(g.Nodes, entity.FlowNode{Name: freqName[fr], Stage: 1, Total: total})
	}
	g.Nodes = append(g.Nodes, entity.FlowNode{Name: entity.SinkActual, Stage: 2, Total: g.ActualTotal})
	if mode == entity.ViewTarget {
		g.Nodes = append(g.Nodes, entity.FlowNode{Name: entity.SinkGap, Stage: 2, Total: g.GapTotal})
	}

	for _, gr := range groups {
		g.Links = append(g.Links, entity.FlowLink{Source: gr.ChapterType, Target: freqName[gr.Frequency], Value: weight(gr)})
	}
	for _, fr := range freqs {
		if v := freqActual[fr]; v > 0 {
			g.Links = append(g.Links, entity.FlowLink{Source: freqName[fr], Target: entity.SinkActual, Value: v})
		}
		if v := freqGap[fr]; mode == entity.ViewTarget && v > 0 {
			g.Links = append(g.Links, entity.FlowLink{Source: freqName[fr], Target: entity.SinkGap, Value: v})
		}
	}
	return g
}
