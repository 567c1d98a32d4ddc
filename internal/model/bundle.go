package model

import "sort"

// Statistics is the run-level summary attached to every bundle.
type Statistics struct {
	Chapters       int `json:"chapters"`
	Words          int `json:"words"`
	Characters     int `json:"characters"`
	Relations      int `json:"relations"`
	Events         int `json:"events"`
	Locations      int `json:"locations"`
	MainPlotEvents int `json:"main_plot_events"`
}

// Bundle is the immutable output of one analysis run. Empty marks the
// NoEntitiesFound case (statistics present, all lists empty); Persisted is
// false when the graph-store write failed after a successful pipeline.
type Bundle struct {
	NovelID string `json:"novel_id"`
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`

	Chapters []Chapter `json:"chapters"`

	Characters  []Character `json:"characters"`
	Relations   []Relation  `json:"relations"`
	Communities [][]string  `json:"communities,omitempty"`

	Events           []Event      `json:"events"`
	Causality        []CausalLink `json:"causality"`
	MainPlotEventIDs []string     `json:"main_plot_events"`

	Locations        []Location        `json:"locations"`
	SceneTransitions []SceneTransition `json:"scene_transitions"`
	Visits           []Visit           `json:"visits"`

	ChapterEmotions   []ChapterEmotion   `json:"chapter_emotions"`
	CharacterEmotions []CharacterEmotion `json:"character_emotions"`
	EmotionCurve      []EmotionPoint     `json:"emotion_curve"`
	EmotionalPeaks    []EmotionalPeak    `json:"emotional_peaks"`

	States           []StateSnapshot   `json:"states"`
	StateTransitions []StateTransition `json:"state_transitions"`

	Statistics Statistics `json:"statistics"`
	Empty      bool       `json:"empty,omitempty"`
	Persisted  bool       `json:"persisted"`
}

// CharacterByName looks up a character by canonical name.
func (b *Bundle) CharacterByName(name string) *Character {
	for i := range b.Characters {
		if b.Characters[i].Name == name {
			return &b.Characters[i]
		}
	}
	return nil
}

// EventByID looks up an event by id.
func (b *Bundle) EventByID(id string) *Event {
	for i := range b.Events {
		if b.Events[i].ID == id {
			return &b.Events[i]
		}
	}
	return nil
}

// Normalize sorts every list into its canonical order so two runs over the
// same input compare deep-equal. It never changes scores or membership.
func (b *Bundle) Normalize() {
	sort.Slice(b.Chapters, func(i, j int) bool { return b.Chapters[i].Index < b.Chapters[j].Index })

	sort.Slice(b.Characters, func(i, j int) bool { return b.Characters[i].Name < b.Characters[j].Name })
	for i := range b.Characters {
		sort.Strings(b.Characters[i].Aliases)
		sort.Ints(b.Characters[i].Chapters)
	}

	sort.Slice(b.Relations, func(i, j int) bool {
		a, c := b.Relations[i], b.Relations[j]
		if a.PairKey() != c.PairKey() {
			return a.PairKey() < c.PairKey()
		}
		return RelationPriority(a.Type) < RelationPriority(c.Type)
	})
	for i := range b.Relations {
		ev := b.Relations[i].Evidence
		sort.Slice(ev, func(x, y int) bool {
			if ev[x].Chapter != ev[y].Chapter {
				return ev[x].Chapter < ev[y].Chapter
			}
			return ev[x].Channel < ev[y].Channel
		})
	}

	for i := range b.Communities {
		sort.Strings(b.Communities[i])
	}
	sort.Slice(b.Communities, func(i, j int) bool {
		if len(b.Communities[i]) == 0 || len(b.Communities[j]) == 0 {
			return len(b.Communities[i]) > len(b.Communities[j])
		}
		return b.Communities[i][0] < b.Communities[j][0]
	})

	sort.Slice(b.Events, func(i, j int) bool { return b.Events[i].Before(&b.Events[j]) })
	for i := range b.Events {
		sort.Strings(b.Events[i].Participants)
	}
	sort.Slice(b.Causality, func(i, j int) bool {
		if b.Causality[i].From != b.Causality[j].From {
			return b.Causality[i].From < b.Causality[j].From
		}
		return b.Causality[i].To < b.Causality[j].To
	})
	sort.Strings(b.MainPlotEventIDs)

	sort.Slice(b.Locations, func(i, j int) bool { return b.Locations[i].Name < b.Locations[j].Name })
	for i := range b.Locations {
		sort.Ints(b.Locations[i].Chapters)
	}
	sort.Slice(b.SceneTransitions, func(i, j int) bool { return b.SceneTransitions[i].EventID < b.SceneTransitions[j].EventID })
	sort.Slice(b.Visits, func(i, j int) bool {
		a, c := b.Visits[i], b.Visits[j]
		if a.Character != c.Character {
			return a.Character < c.Character
		}
		if a.Location != c.Location {
			return a.Location < c.Location
		}
		return a.Chapter < c.Chapter
	})

	sort.Slice(b.ChapterEmotions, func(i, j int) bool { return b.ChapterEmotions[i].Chapter < b.ChapterEmotions[j].Chapter })
	sort.Slice(b.CharacterEmotions, func(i, j int) bool {
		a, c := b.CharacterEmotions[i], b.CharacterEmotions[j]
		if a.Chapter != c.Chapter {
			return a.Chapter < c.Chapter
		}
		if a.Source != c.Source {
			return a.Source < c.Source
		}
		return a.Target < c.Target
	})
	sort.Slice(b.EmotionCurve, func(i, j int) bool { return b.EmotionCurve[i].Chapter < b.EmotionCurve[j].Chapter })
	sort.Slice(b.EmotionalPeaks, func(i, j int) bool { return b.EmotionalPeaks[i].Chapter < b.EmotionalPeaks[j].Chapter })

	sort.Slice(b.States, func(i, j int) bool {
		a, c := b.States[i], b.States[j]
		if a.Character != c.Character {
			return a.Character < c.Character
		}
		if a.Chapter != c.Chapter {
			return a.Chapter < c.Chapter
		}
		return a.Axis < c.Axis
	})
	sort.Slice(b.StateTransitions, func(i, j int) bool {
		a, c := b.StateTransitions[i], b.StateTransitions[j]
		if a.Character != c.Character {
			return a.Character < c.Character
		}
		if a.ToChapter != c.ToChapter {
			return a.ToChapter < c.ToChapter
		}
		return a.Axis < c.Axis
	})
}
