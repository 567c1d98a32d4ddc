// Package timeline orders events, infers hierarchy and causal links, and
// ranks events by main-plot contribution via a random walk with restart.
package timeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

// causalChapterSpan bounds how far back a consequence cue may reach.
const causalChapterSpan = 2

type Analyzer struct {
	cfg        config.AnalysisConfig
	lex        *lexicon.Set
	absoluteRe []*regexp.Regexp
	relativeRe []*regexp.Regexp
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set) *Analyzer {
	a := &Analyzer{cfg: cfg, lex: lex}
	for _, p := range lex.AbsoluteTime {
		a.absoluteRe = append(a.absoluteRe, regexp.MustCompile(p))
	}
	for _, p := range lex.RelativeTime {
		a.relativeRe = append(a.relativeRe, regexp.MustCompile(p))
	}
	return a
}

// Result is the timeline stage output. Events come back totally ordered with
// parents, markers and contribution scores filled.
type Result struct {
	Events      []model.Event
	Causality   []model.CausalLink
	MainPlotIDs []string
}

func (a *Analyzer) Analyze(events []model.Event, characters []model.Character) *Result {
	ordered := append([]model.Event(nil), events...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(&ordered[j]) })

	a.buildHierarchy(ordered)
	a.attachTimeMarkers(ordered)
	causality := a.buildCausality(ordered)
	a.scoreContribution(ordered, characters, causality)

	var mainPlot []string
	for _, e := range ordered {
		if e.Contribution >= a.cfg.MainPlotThreshold {
			mainPlot = append(mainPlot, e.ID)
		}
	}
	sort.Strings(mainPlot)

	return &Result{Events: ordered, Causality: causality, MainPlotIDs: mainPlot}
}

// buildHierarchy nests an event under the most important qualifying event of
// the same chapter: shared participants >= 2, importance lead >= delta,
// within the sentence window. Parents always outscore children, so the
// result is a forest.
func (a *Analyzer) buildHierarchy(events []model.Event) {
	byChapter := make(map[int][]int)
	for i, e := range events {
		byChapter[e.Chapter] = append(byChapter[e.Chapter], i)
	}

	for _, idxs := range byChapter {
		for _, i := range idxs {
			bestParent := -1
			for _, j := range idxs {
				if i == j {
					continue
				}
				child, parent := &events[i], &events[j]
				if abs(parent.Sequence-child.Sequence) > a.cfg.HierarchyWindow {
					continue
				}
				if sharedParticipants(child, parent) < 2 {
					continue
				}
				if parent.Importance < child.Importance+a.cfg.HierarchyDelta {
					continue
				}
				if bestParent == -1 || events[j].Importance > events[bestParent].Importance {
					bestParent = j
				}
			}
			if bestParent >= 0 {
				events[i].ParentID = events[bestParent].ID
			}
		}
	}
}

func (a *Analyzer) attachTimeMarkers(events []model.Event) {
	// Relative markers first: "三日后" must not be claimed by the bare
	// "三日" absolute pattern.
	for i := range events {
		desc := events[i].Description
		if m := firstMatch(a.relativeRe, desc); m != "" {
			events[i].TimeMarker = &model.TimeMarker{Kind: "relative", Text: m}
			continue
		}
		if m := firstMatch(a.absoluteRe, desc); m != "" {
			events[i].TimeMarker = &model.TimeMarker{Kind: "absolute", Text: m}
		}
	}
}

// buildCausality links E_i→E_j when they share a participant, both clear the
// importance floor, and E_j carries a consequence cue. Only ordered pairs are
// considered, so the causal graph respects the total order.
func (a *Analyzer) buildCausality(events []model.Event) []model.CausalLink {
	var links []model.CausalLink
	for j := range events {
		if events[j].Importance < a.cfg.CausalFloor {
			continue
		}
		if !containsAny(events[j].Description, a.lex.ConsequenceCues) {
			continue
		}
		for i := 0; i < j; i++ {
			if events[j].Chapter-events[i].Chapter > causalChapterSpan {
				continue
			}
			if events[i].Importance < a.cfg.CausalFloor {
				continue
			}
			shared := sharedParticipants(&events[i], &events[j])
			if shared < 1 {
				continue
			}
			strength := 0.4 + 0.2*float64(shared)
			if strength > 1 {
				strength = 1
			}
			links = append(links, model.CausalLink{
				From:     events[i].ID,
				To:       events[j].ID,
				Strength: strength,
			})
		}
	}
	return links
}

// AugmentCausality adds links for event pairs bridged by a state transition:
// the transition's cause event to any later event of the same character
// inside the transition span. Links keep cause before effect.
func (a *Analyzer) AugmentCausality(res *Result, transitions []model.StateTransition) {
	index := make(map[string]*model.Event, len(res.Events))
	for i := range res.Events {
		index[res.Events[i].ID] = &res.Events[i]
	}
	seen := make(map[string]bool, len(res.Causality))
	for _, l := range res.Causality {
		seen[l.From+"\x00"+l.To] = true
	}

	for _, t := range transitions {
		if t.CauseEventID == "" {
			continue
		}
		cause, ok := index[t.CauseEventID]
		if !ok {
			continue
		}
		for i := range res.Events {
			e := &res.Events[i]
			if e.ID == cause.ID || !cause.Before(e) {
				continue
			}
			if e.Chapter < t.FromChapter || e.Chapter > t.ToChapter {
				continue
			}
			if !hasParticipant(e, t.Character) {
				continue
			}
			key := cause.ID + "\x00" + e.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			shared := sharedParticipants(cause, e)
			strength := 0.3 + 0.2*float64(shared)
			if strength > 1 {
				strength = 1
			}
			res.Causality = append(res.Causality, model.CausalLink{From: cause.ID, To: e.ID, Strength: strength})
		}
	}

	sort.Slice(res.Causality, func(i, j int) bool {
		if res.Causality[i].From != res.Causality[j].From {
			return res.Causality[i].From < res.Causality[j].From
		}
		return res.Causality[i].To < res.Causality[j].To
	})
}

// scoreContribution runs a random walk with restart over the bipartite
// event–participant graph plus the causal edges. Restart mass sits on events
// involving main characters; the steady-state event probabilities are
// min-max normalized into contribution scores.
func (a *Analyzer) scoreContribution(events []model.Event, characters []model.Character, causality []model.CausalLink) {
	if len(events) == 0 {
		return
	}

	main := make(map[string]bool)
	for _, c := range characters {
		if c.Classification == model.ClassMain {
			main[c.Name] = true
		}
	}
	if len(main) == 0 {
		best := ""
		bestImp := -1.0
		for _, c := range characters {
			if c.Importance > bestImp {
				best, bestImp = c.Name, c.Importance
			}
		}
		if best != "" {
			main[best] = true
		}
	}

	nodeIndex := make(map[string]int)
	var nodes []string
	add := func(id string) int {
		if i, ok := nodeIndex[id]; ok {
			return i
		}
		nodeIndex[id] = len(nodes)
		nodes = append(nodes, id)
		return len(nodes) - 1
	}
	for _, e := range events {
		add("e:" + e.ID)
	}
	for _, c := range characters {
		add("c:" + c.Name)
	}

	type edge struct {
		to     int
		weight float64
	}
	out := make([][]edge, len(nodes))
	link := func(from, to int, w float64) {
		out[from] = append(out[from], edge{to, w})
	}
	for _, e := range events {
		ei := nodeIndex["e:"+e.ID]
		for _, p := range e.Participants {
			if ci, ok := nodeIndex["c:"+p]; ok {
				link(ei, ci, 1)
				link(ci, ei, 1)
			}
		}
	}
	for _, l := range causality {
		from, okF := nodeIndex["e:"+l.From]
		to, okT := nodeIndex["e:"+l.To]
		if okF && okT {
			link(from, to, l.Strength)
		}
	}

	restart := make([]float64, len(nodes))
	restartCount := 0
	for _, e := range events {
		for _, p := range e.Participants {
			if main[p] {
				restart[nodeIndex["e:"+e.ID]] = 1
				restartCount++
				break
			}
		}
	}
	if restartCount == 0 {
		for _, e := range events {
			restart[nodeIndex["e:"+e.ID]] = 1
			restartCount++
		}
	}
	for i := range restart {
		restart[i] /= float64(restartCount)
	}

	p := append([]float64(nil), restart...)
	alpha := a.cfg.WalkDamping
	for iter := 0; iter < a.cfg.WalkIterations; iter++ {
		next := make([]float64, len(nodes))
		dangling := 0.0
		for u := range nodes {
			if p[u] == 0 {
				continue
			}
			edges := out[u]
			if len(edges) == 0 {
				dangling += p[u]
				continue
			}
			total := 0.0
			for _, e := range edges {
				total += e.weight
			}
			for _, e := range edges {
				next[e.to] += p[u] * e.weight / total
			}
		}
		for i := range next {
			next[i] = (1-alpha)*restart[i] + alpha*(next[i]+dangling*restart[i])
		}
		p = next
	}

	min, max := -1.0, -1.0
	for _, e := range events {
		v := p[nodeIndex["e:"+e.ID]]
		if min < 0 || v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	for i := range events {
		v := p[nodeIndex["e:"+events[i].ID]]
		if max > min {
			events[i].Contribution = (v - min) / (max - min)
		} else {
			events[i].Contribution = 0.5
		}
	}
}

func sharedParticipants(a, b *model.Event) int {
	set := make(map[string]bool, len(a.Participants))
	for _, p := range a.Participants {
		set[p] = true
	}
	shared := 0
	for _, p := range b.Participants {
		if set[p] {
			shared++
		}
	}
	return shared
}

func hasParticipant(e *model.Event, name string) bool {
	for _, p := range e.Participants {
		if p == name {
			return true
		}
	}
	return false
}

func firstMatch(res []*regexp.Regexp, s string) string {
	for _, re := range res {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
