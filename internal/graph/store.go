package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/inkweave/inkgraph/internal/model"
)

// Store projects analysis bundles onto the property graph. An upsert first
// deletes everything carrying the novel id, so re-running an analysis is
// idempotent.
type Store struct {
	Driver Driver
}

func NewStore(d Driver) *Store {
	return &Store{Driver: d}
}

// UpsertBundle writes the full projection in one transaction.
func (s *Store) UpsertBundle(ctx context.Context, novelID string, b *model.Bundle) error {
	if err := s.Driver.ExecuteBatch(ctx, s.statements(novelID, b)); err != nil {
		return fmt.Errorf("upsert bundle for novel %s: %w", novelID, err)
	}
	return nil
}

func (s *Store) statements(novelID string, b *model.Bundle) []Statement {
	stmts := []Statement{
		{DeleteNovelQuery, map[string]any{"novel_id": novelID}},
		{SaveNovelQuery, map[string]any{
			"novel_id": novelID,
			"title":    b.Title,
			"author":   b.Author,
		}},
	}

	for _, ch := range b.Chapters {
		stmts = append(stmts, Statement{SaveChapterQuery, map[string]any{
			"novel_id":   novelID,
			"index":      ch.Index,
			"title":      ch.Title,
			"word_count": ch.WordCount,
			"summary":    ch.Summary,
		}})
	}

	for _, c := range b.Characters {
		stmts = append(stmts, Statement{SaveCharacterQuery, map[string]any{
			"novel_id":          novelID,
			"name":              c.Name,
			"aliases":           c.Aliases,
			"importance":        c.Importance,
			"degree_centrality": c.DegreeCentrality,
			"mention_count":     c.MentionCount,
			"first_appearance":  c.FirstAppearance,
			"classification":    c.Classification,
		}})
		for _, chapter := range c.Chapters {
			stmts = append(stmts, Statement{SaveAppearsInQuery, map[string]any{
				"novel_id": novelID,
				"name":     c.Name,
				"chapter":  chapter,
			}})
		}
	}

	for _, r := range b.Relations {
		stmts = append(stmts, Statement{SaveKnowsQuery, map[string]any{
			"novel_id": novelID,
			"from":     r.From,
			"to":       r.To,
			"type":     string(r.Type),
			"strength": r.Strength,
		}})
	}

	for _, l := range b.Locations {
		stmts = append(stmts, Statement{SaveLocationQuery, map[string]any{
			"novel_id":    novelID,
			"name":        l.Name,
			"type":        string(l.Type),
			"importance":  l.Importance,
			"event_count": l.EventCount,
		}})
	}

	prev := ""
	for _, e := range b.Events {
		stmts = append(stmts, Statement{SaveEventQuery, map[string]any{
			"novel_id":           novelID,
			"event_id":           e.ID,
			"description":        e.Description,
			"chapter":            e.Chapter,
			"sequence":           e.Sequence,
			"event_type":         string(e.Type),
			"importance_score":   e.Importance,
			"contribution_score": e.Contribution,
		}})
		for _, p := range e.Participants {
			stmts = append(stmts, Statement{SaveParticipatesQuery, map[string]any{
				"novel_id": novelID,
				"name":     p,
				"event_id": e.ID,
			}})
		}
		if e.Location != "" {
			stmts = append(stmts, Statement{SaveHappensAtQuery, map[string]any{
				"novel_id": novelID,
				"event_id": e.ID,
				"name":     e.Location,
			}})
		}
		if e.ParentID != "" {
			stmts = append(stmts, Statement{SaveSubEventQuery, map[string]any{
				"novel_id": novelID,
				"child":    e.ID,
				"parent":   e.ParentID,
			}})
		}
		if prev != "" {
			stmts = append(stmts, Statement{SaveNextQuery, map[string]any{
				"novel_id": novelID,
				"from":     prev,
				"to":       e.ID,
			}})
		}
		prev = e.ID
	}

	for _, c := range b.Causality {
		stmts = append(stmts, Statement{SaveCausesQuery, map[string]any{
			"novel_id": novelID,
			"from":     c.From,
			"to":       c.To,
			"strength": c.Strength,
		}})
	}

	for _, e := range b.ChapterEmotions {
		stmts = append(stmts, Statement{SaveEmotionQuery, map[string]any{
			"novel_id":  novelID,
			"chapter":   e.Chapter,
			"sentiment": e.Sentiment,
			"distribution": []float64{
				e.Distribution.Joy, e.Distribution.Sadness, e.Distribution.Anger,
				e.Distribution.Fear, e.Distribution.Surprise, e.Distribution.Disgust,
			},
		}})
	}

	for _, e := range b.CharacterEmotions {
		stmts = append(stmts, Statement{SaveEmotionTowardsQuery, map[string]any{
			"novel_id":  novelID,
			"source":    e.Source,
			"target":    e.Target,
			"chapter":   e.Chapter,
			"type":      e.Emotion,
			"intensity": e.Intensity,
		}})
	}

	for _, st := range b.States {
		stmts = append(stmts, Statement{SaveStateQuery, map[string]any{
			"novel_id":  novelID,
			"character": st.Character,
			"chapter":   st.Chapter,
			"axis":      string(st.Axis),
			"value":     st.Value,
		}})
	}

	for _, v := range b.Visits {
		stmts = append(stmts, Statement{SaveVisitsQuery, map[string]any{
			"novel_id":    novelID,
			"name":        v.Character,
			"location":    v.Location,
			"chapter":     v.Chapter,
			"visit_count": v.Count,
		}})
	}

	return stmts
}

// ReadBundle reconstructs the persisted projection. Lists not stored as
// first-class nodes (curve, peaks, transitions) are not rebuilt here.
func (s *Store) ReadBundle(ctx context.Context, novelID string) (*model.Bundle, error) {
	b := &model.Bundle{NovelID: novelID, Persisted: true}

	records, err := s.Driver.ExecuteQuery(ctx, ReadCharactersQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.Characters = append(b.Characters, model.Character{
			Name:             getString(rec, "name"),
			Aliases:          getStrings(rec, "aliases"),
			Importance:       getFloat(rec, "importance"),
			DegreeCentrality: getFloat(rec, "degree_centrality"),
			MentionCount:     getInt(rec, "mention_count"),
			FirstAppearance:  getInt(rec, "first_appearance"),
			Classification:   getString(rec, "classification"),
		})
	}

	records, err = s.Driver.ExecuteQuery(ctx, ReadRelationsQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.Relations = append(b.Relations, model.Relation{
			From:     getString(rec, "from"),
			To:       getString(rec, "to"),
			Type:     model.RelationType(getString(rec, "type")),
			Strength: getFloat(rec, "strength"),
		})
	}

	records, err = s.Driver.ExecuteQuery(ctx, ReadEventsQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.Events = append(b.Events, model.Event{
			ID:           getString(rec, "event_id"),
			Description:  getString(rec, "description"),
			Chapter:      getInt(rec, "chapter"),
			Sequence:     getInt(rec, "sequence"),
			Type:         model.EventType(getString(rec, "event_type")),
			Importance:   getFloat(rec, "importance_score"),
			Contribution: getFloat(rec, "contribution_score"),
		})
	}

	records, err = s.Driver.ExecuteQuery(ctx, ReadLocationsQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.Locations = append(b.Locations, model.Location{
			Name:       getString(rec, "name"),
			Type:       model.LocationType(getString(rec, "type")),
			Importance: getFloat(rec, "importance"),
			EventCount: getInt(rec, "event_count"),
		})
	}

	records, err = s.Driver.ExecuteQuery(ctx, ReadEmotionsQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		dist := getFloats(rec, "distribution")
		ce := model.ChapterEmotion{
			Chapter:   getInt(rec, "chapter"),
			Sentiment: getFloat(rec, "sentiment"),
		}
		if len(dist) == 6 {
			ce.Distribution = model.EmotionDistribution{
				Joy: dist[0], Sadness: dist[1], Anger: dist[2],
				Fear: dist[3], Surprise: dist[4], Disgust: dist[5],
			}
		}
		b.ChapterEmotions = append(b.ChapterEmotions, ce)
	}

	records, err = s.Driver.ExecuteQuery(ctx, ReadStatesQuery, map[string]any{"novel_id": novelID})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.States = append(b.States, model.StateSnapshot{
			Character: getString(rec, "character"),
			Chapter:   getInt(rec, "chapter"),
			Axis:      model.StateAxis(getString(rec, "axis")),
			Value:     getFloat(rec, "value"),
		})
	}

	b.Normalize()
	return b, nil
}

func getString(rec *db.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(rec *db.Record, key string) int {
	if v, ok := rec.Get(key); ok {
		switch n := v.(type) {
		case int64:
			return int(n)
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}

func getFloat(rec *db.Record, key string) float64 {
	if v, ok := rec.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	}
	return 0
}

func getStrings(rec *db.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func getFloats(rec *db.Record, key string) []float64 {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []float64:
		return list
	case []any:
		out := make([]float64, 0, len(list))
		for _, item := range list {
			if f, ok := item.(float64); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}
