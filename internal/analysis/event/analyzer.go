// Package event detects discrete events inside chapters and scores their
// importance.
package event

import (
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

const descriptionLimit = 200

type Analyzer struct {
	cfg config.AnalysisConfig
	lex *lexicon.Set
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set) *Analyzer {
	return &Analyzer{cfg: cfg, lex: lex}
}

// Detect walks every chapter sentence. A sentence becomes an event when it
// mentions at least one character and carries an event verb or a
// turning-point cue. Sequence is the sentence index, so the total order and
// event ids are stable.
func (a *Analyzer) Detect(novel *model.Novel, characters []model.Character, locations []model.Location) []model.Event {
	aliases := make(map[string][]string, len(characters))
	var names []string
	for _, c := range characters {
		names = append(names, c.Name)
		aliases[c.Name] = c.Aliases
	}
	sort.Strings(names)

	locNames := make([]string, len(locations))
	for i, l := range locations {
		locNames[i] = l.Name
	}
	sort.Strings(locNames)

	verbs := make([]string, 0, len(a.lex.EventVerbs))
	for v := range a.lex.EventVerbs {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	var events []model.Event
	for _, ch := range novel.Chapters {
		lastLoc := make([]string, len(ch.Sentences))
		current := ""
		currentAge := 0
		for i, sentence := range ch.Sentences {
			found := ""
			for _, ln := range locNames {
				if strings.Contains(sentence, ln) {
					found = ln
					break
				}
			}
			if found != "" {
				current, currentAge = found, 0
			} else if current != "" {
				currentAge++
				if currentAge > a.cfg.LocationBackWindow {
					current = ""
				}
			}
			lastLoc[i] = current
		}

		for i, sentence := range ch.Sentences {
			participants := charactersIn(sentence, names, aliases)
			if len(participants) == 0 {
				continue
			}

			verb, class := bestVerb(sentence, verbs, a.lex.EventVerbs)
			turning := containsAny(sentence, a.lex.TurningCues)
			if verb == "" && !turning {
				continue
			}

			typ := model.EventOther
			if verb != "" {
				typ = model.EventType(class.Type)
			} else {
				typ = model.EventTurningPoint
			}

			desc := sentence
			if runes := []rune(desc); len(runes) > descriptionLimit {
				desc = string(runes[:descriptionLimit])
			}

			events = append(events, model.Event{
				ID:           model.EventID(ch.Index, i),
				Description:  desc,
				Chapter:      ch.Index,
				Sequence:     i,
				Type:         typ,
				Participants: participants,
				Location:     lastLoc[i],
				TurningPoint: turning,
			})
		}
	}

	return events
}

// ScoreImportance applies the weighted importance formula: participant
// importance, verb class weight, turning-point bonus, chapter-position bonus.
func (a *Analyzer) ScoreImportance(events []model.Event, novel *model.Novel, importance map[string]float64) []model.Event {
	sentenceCount := make(map[int]int, len(novel.Chapters))
	for _, ch := range novel.Chapters {
		sentenceCount[ch.Index] = len(ch.Sentences)
	}

	verbs := make([]string, 0, len(a.lex.EventVerbs))
	for v := range a.lex.EventVerbs {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	out := make([]model.Event, len(events))
	for i, e := range events {
		maxPart := 0.0
		for _, p := range e.Participants {
			if importance[p] > maxPart {
				maxPart = importance[p]
			}
		}

		verbWeight := 0.0
		if _, class := bestVerb(e.Description, verbs, a.lex.EventVerbs); class.Type != "" {
			verbWeight = class.Weight
		}

		turnBonus := 0.0
		if e.TurningPoint {
			turnBonus = 1.0
		}

		posBonus := 0.0
		if n := sentenceCount[e.Chapter]; n > 0 {
			pos := float64(e.Sequence) / float64(n)
			if pos < 0.1 || pos > 0.9 {
				posBonus = 1.0
			}
		}

		e.Importance = 0.4*maxPart + 0.3*verbWeight + 0.2*turnBonus + 0.1*posBonus
		out[i] = e
	}
	return out
}

// bestVerb returns the heaviest matching event verb in the sentence.
func bestVerb(sentence string, verbs []string, classes map[string]lexicon.VerbClass) (string, lexicon.VerbClass) {
	best := ""
	var bestClass lexicon.VerbClass
	for _, v := range verbs {
		if !strings.Contains(sentence, v) {
			continue
		}
		class := classes[v]
		if class.Weight > bestClass.Weight {
			best, bestClass = v, class
		}
	}
	return best, bestClass
}

func charactersIn(sentence string, names []string, aliases map[string][]string) []string {
	var found []string
	for _, n := range names {
		for _, alias := range aliases[n] {
			if strings.Contains(sentence, alias) {
				found = append(found, n)
				break
			}
		}
	}
	return found
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
