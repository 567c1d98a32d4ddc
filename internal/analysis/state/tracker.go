// Package state tracks main-character state on four bounded axes and emits
// transitions tied to their triggering events.
package state

import (
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

const (
	initialValue  = 0.5
	maxChapterMag = 0.5
)

type Tracker struct {
	cfg config.AnalysisConfig
	lex *lexicon.Set
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set) *Tracker {
	return &Tracker{cfg: cfg, lex: lex}
}

type Result struct {
	Snapshots   []model.StateSnapshot
	Transitions []model.StateTransition
}

// Track follows every main character from its first appearance to the last
// chapter. Snapshots are dense: chapters without a matched keyword carry the
// previous value forward. A chapter delta beyond the transition floor emits
// a StateTransition linked to the strongest event sharing the character
// within the transition span.
func (t *Tracker) Track(novel *model.Novel, characters []model.Character, events []model.Event) *Result {
	res := &Result{}
	if len(novel.Chapters) == 0 {
		return res
	}
	lastChapter := novel.Chapters[len(novel.Chapters)-1].Index

	tracked := make([]model.Character, 0, len(characters))
	for _, c := range characters {
		if c.Classification == model.ClassMain {
			tracked = append(tracked, c)
		}
	}
	sort.Slice(tracked, func(i, j int) bool { return tracked[i].Name < tracked[j].Name })

	byChapter := make(map[int][]string)
	for _, ch := range novel.Chapters {
		byChapter[ch.Index] = ch.Sentences
	}

	for _, c := range tracked {
		values := map[model.StateAxis]float64{}
		for _, axis := range model.Axes {
			values[axis] = initialValue
		}

		for chapter := c.FirstAppearance; chapter <= lastChapter; chapter++ {
			deltas := t.chapterDeltas(byChapter[chapter], c.Aliases)

			for _, axis := range model.Axes {
				delta := clip(deltas[axis], -maxChapterMag, maxChapterMag)
				value := clip(values[axis]+delta, 0, 1)
				values[axis] = value

				eventID := ""
				if delta > t.cfg.TransitionFloor || delta < -t.cfg.TransitionFloor {
					from := chapter - 1
					if from < c.FirstAppearance {
						from = c.FirstAppearance
					}
					eventID = t.causeEvent(events, c.Name, from, chapter)
					res.Transitions = append(res.Transitions, model.StateTransition{
						Character:    c.Name,
						Axis:         axis,
						FromChapter:  from,
						ToChapter:    chapter,
						Delta:        delta,
						CauseEventID: eventID,
					})
				}

				res.Snapshots = append(res.Snapshots, model.StateSnapshot{
					Character: c.Name,
					Chapter:   chapter,
					Axis:      axis,
					Value:     value,
					EventID:   eventID,
				})
			}
		}
	}

	return res
}

// chapterDeltas sums keyword deltas over the sentences naming the character.
func (t *Tracker) chapterDeltas(sentences []string, aliases []string) map[model.StateAxis]float64 {
	deltas := make(map[model.StateAxis]float64, len(model.Axes))
	for _, sentence := range sentences {
		mentioned := false
		for _, alias := range aliases {
			if strings.Contains(sentence, alias) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			continue
		}
		for _, axis := range model.Axes {
			for kw, d := range t.lex.StateDeltas[string(axis)] {
				if strings.Contains(sentence, kw) {
					deltas[axis] += d
				}
			}
		}
	}
	return deltas
}

// causeEvent picks the highest-importance event sharing the character within
// chapters [from, to]; ties go to the earlier event.
func (t *Tracker) causeEvent(events []model.Event, character string, from, to int) string {
	best := -1
	for i := range events {
		e := &events[i]
		if e.Chapter < from || e.Chapter > to {
			continue
		}
		participates := false
		for _, p := range e.Participants {
			if p == character {
				participates = true
				break
			}
		}
		if !participates {
			continue
		}
		if best == -1 || e.Importance > events[best].Importance ||
			(e.Importance == events[best].Importance && e.Before(&events[best])) {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return events[best].ID
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
