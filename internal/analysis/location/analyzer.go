// Package location scores locations, tracks scene transitions over the
// event order and builds character visit tables.
package location

import (
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/model"
)

type Analyzer struct {
	cfg config.AnalysisConfig
}

func New(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Result is the location stage output.
type Result struct {
	Locations   []model.Location
	Transitions []model.SceneTransition
	Visits      []model.Visit
}

// Analyze expects events in total order. Location importance is the min-max
// normalized sum of contained-event importance plus a distinct-visitor bonus.
func (a *Analyzer) Analyze(novel *model.Novel, locations []model.Location, characters []model.Character, events []model.Event) *Result {
	impSum := make(map[string]float64, len(locations))
	count := make(map[string]int, len(locations))
	visitors := make(map[string]map[string]bool, len(locations))

	for _, e := range events {
		if e.Location == "" {
			continue
		}
		count[e.Location]++
		impSum[e.Location] += e.Importance
		set := visitors[e.Location]
		if set == nil {
			set = make(map[string]bool)
			visitors[e.Location] = set
		}
		for _, p := range e.Participants {
			set[p] = true
		}
	}

	raw := make(map[string]float64, len(locations))
	minScore, maxScore := -1.0, -1.0
	for _, l := range locations {
		score := impSum[l.Name] + 0.1*float64(len(visitors[l.Name]))
		raw[l.Name] = score
		if minScore < 0 || score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	out := make([]model.Location, len(locations))
	for i, l := range locations {
		l.EventCount = count[l.Name]
		if maxScore > minScore {
			l.Importance = (raw[l.Name] - minScore) / (maxScore - minScore)
		} else if l.EventCount > 0 {
			l.Importance = 1.0
		}
		out[i] = l
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return &Result{
		Locations:   out,
		Transitions: a.transitions(events),
		Visits:      a.visits(novel, locations, characters, events),
	}
}

// transitions skips events without a location and emits one entry per
// consecutive pair of located events whose locations differ; the later
// event is the trigger.
func (a *Analyzer) transitions(events []model.Event) []model.SceneTransition {
	var transitions []model.SceneTransition
	prev := ""
	for _, e := range events {
		if e.Location == "" {
			continue
		}
		if prev != "" && e.Location != prev {
			transitions = append(transitions, model.SceneTransition{
				From:    prev,
				To:      e.Location,
				Chapter: e.Chapter,
				EventID: e.ID,
			})
		}
		prev = e.Location
	}
	return transitions
}

// visits merges event participation with explicit same-sentence mentions.
func (a *Analyzer) visits(novel *model.Novel, locations []model.Location, characters []model.Character, events []model.Event) []model.Visit {
	type key struct {
		char    string
		loc     string
		chapter int
	}
	counts := make(map[key]int)

	for _, e := range events {
		if e.Location == "" {
			continue
		}
		for _, p := range e.Participants {
			counts[key{p, e.Location, e.Chapter}]++
		}
	}

	for _, ch := range novel.Chapters {
		for _, sentence := range ch.Sentences {
			for _, l := range locations {
				if !strings.Contains(sentence, l.Name) {
					continue
				}
				for _, c := range characters {
					for _, alias := range c.Aliases {
						if strings.Contains(sentence, alias) {
							counts[key{c.Name, l.Name, ch.Index}]++
							break
						}
					}
				}
			}
		}
	}

	visits := make([]model.Visit, 0, len(counts))
	for k, n := range counts {
		visits = append(visits, model.Visit{Character: k.char, Location: k.loc, Chapter: k.chapter, Count: n})
	}
	sort.Slice(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		if a.Character != b.Character {
			return a.Character < b.Character
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Chapter < b.Chapter
	})
	return visits
}
