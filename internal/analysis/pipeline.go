// Package analysis wires the nine stages into one sequential pipeline and
// assembles the immutable analysis bundle.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/inkweave/inkgraph/internal/analysis/character"
	"github.com/inkweave/inkgraph/internal/analysis/emotion"
	"github.com/inkweave/inkgraph/internal/analysis/entity"
	"github.com/inkweave/inkgraph/internal/analysis/event"
	"github.com/inkweave/inkgraph/internal/analysis/location"
	"github.com/inkweave/inkgraph/internal/analysis/relation"
	"github.com/inkweave/inkgraph/internal/analysis/state"
	"github.com/inkweave/inkgraph/internal/analysis/timeline"
	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
	"github.com/inkweave/inkgraph/internal/textproc"
)

// Progress receives coarse pipeline progress, 0–100.
type Progress func(percent int, message string)

// Store persists a completed bundle; writes are scoped to the novel id and
// atomic at the bundle level.
type Store interface {
	UpsertBundle(ctx context.Context, novelID string, bundle *model.Bundle) error
}

// Enricher optionally annotates a finished bundle (LLM summaries); failures
// never fail the analysis.
type Enricher interface {
	EnrichBundle(ctx context.Context, bundle *model.Bundle) error
}

// Pipeline runs one analysis end to end. It is single-threaded within a run
// and keeps no mutable state between runs, so distinct novels may be
// analyzed concurrently by distinct callers.
type Pipeline struct {
	cfg      *config.Config
	lex      *lexicon.Set
	store    Store
	enricher Enricher
	progress Progress
	tok      textproc.Tokenizer
}

func New(cfg *config.Config, lex *lexicon.Set, store Store, progress Progress) *Pipeline {
	if progress == nil {
		progress = func(int, string) {}
	}
	return &Pipeline{cfg: cfg, lex: lex, store: store, progress: progress}
}

// SetEnricher attaches the optional LLM enrichment step.
func (p *Pipeline) SetEnricher(e Enricher) { p.enricher = e }

// SetTokenizer overrides the default dictionary tokenizer (tests inject
// fixtures here).
func (p *Pipeline) SetTokenizer(tok textproc.Tokenizer) { p.tok = tok }

func (p *Pipeline) tokenizer() textproc.Tokenizer {
	if p.tok != nil {
		return p.tok
	}
	tok := textproc.NewDictTokenizer(p.lex.Surnames, p.lex.FunctionChars, p.lex.PlaceSuffixes)
	for v := range p.lex.EventVerbs {
		tok.AddWord(v, "v")
	}
	return tok
}

// Analyze runs the stage sequence over the novel and returns the bundle.
// Cancellation is honored between stages; a cancelled run writes nothing.
func (p *Pipeline) Analyze(ctx context.Context, novel *model.Novel) (*model.Bundle, error) {
	if novel == nil || len(novel.Chapters) == 0 {
		return nil, ErrInvalidInput
	}
	if p.lex == nil {
		return nil, ErrLexiconMissing
	}

	proc := textproc.NewProcessor(p.tokenizer(), p.lex.StopWords)

	// Text processing: sentence-split every chapter in place on a copy.
	p.progress(5, "processing text")
	work := *novel
	work.Chapters = append([]model.Chapter(nil), novel.Chapters...)
	for i := range work.Chapters {
		sentences, err := proc.Sentences(work.Chapters[i].Text)
		if err != nil {
			if errors.Is(err, textproc.ErrEmptyText) {
				return nil, fmt.Errorf("chapter %d: %w", work.Chapters[i].Index, ErrInvalidInput)
			}
			return nil, &StageError{Stage: "textprocessor", Err: err}
		}
		work.Chapters[i].Sentences = sentences
		if work.Chapters[i].WordCount == 0 {
			work.Chapters[i].WordCount = len([]rune(work.Chapters[i].Text))
		}
	}
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(15, "extracting entities")
	entities, err := entity.New(p.cfg.Analysis, p.lex, proc).Extract(&work)
	if err != nil {
		if errors.Is(err, entity.ErrNoEntities) {
			log.Printf("analysis %s: %v, returning empty bundle", novel.ID, err)
			return p.finish(ctx, &work, p.emptyBundle(&work)), nil
		}
		return nil, &StageError{Stage: "entityextractor", Err: err}
	}
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(30, "extracting relations")
	relations := relation.New(p.cfg.Analysis, p.lex).Extract(&work, entities.Characters, entities.Aliases)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(40, "analyzing characters")
	characters, communities := character.New(p.cfg.Analysis).Analyze(entities.Characters, relations, len(work.Chapters))
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(50, "detecting events")
	eventAnalyzer := event.New(p.cfg.Analysis, p.lex)
	events := eventAnalyzer.Detect(&work, characters, entities.Locations)
	importance := make(map[string]float64, len(characters))
	for _, c := range characters {
		importance[c.Name] = c.Importance
	}
	events = eventAnalyzer.ScoreImportance(events, &work, importance)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(60, "building timeline")
	tl := timeline.New(p.cfg.Analysis, p.lex).Analyze(events, characters)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(70, "analyzing locations")
	locs := location.New(p.cfg.Analysis).Analyze(&work, entities.Locations, characters, tl.Events)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(80, "analyzing emotions")
	emo := emotion.New(p.cfg.Analysis, p.lex).Analyze(&work, characters)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	p.progress(88, "tracking states")
	states := state.New(p.cfg.Analysis, p.lex).Track(&work, characters, tl.Events)
	timeline.New(p.cfg.Analysis, p.lex).AugmentCausality(tl, states.Transitions)
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}

	bundle := &model.Bundle{
		NovelID:           work.ID,
		Title:             work.Title,
		Author:            work.Author,
		Chapters:          work.Chapters,
		Characters:        characters,
		Relations:         relations,
		Communities:       communities,
		Events:            tl.Events,
		Causality:         tl.Causality,
		MainPlotEventIDs:  tl.MainPlotIDs,
		Locations:         locs.Locations,
		SceneTransitions:  locs.Transitions,
		Visits:            locs.Visits,
		ChapterEmotions:   emo.ChapterEmotions,
		CharacterEmotions: emo.CharacterEmotions,
		EmotionCurve:      emo.Curve,
		EmotionalPeaks:    emo.Peaks,
		States:            states.Snapshots,
		StateTransitions:  states.Transitions,
	}
	bundle.Statistics = model.Statistics{
		Chapters:       len(work.Chapters),
		Words:          work.WordCount(),
		Characters:     len(characters),
		Relations:      len(relations),
		Events:         len(tl.Events),
		Locations:      len(locs.Locations),
		MainPlotEvents: len(tl.MainPlotIDs),
	}

	return p.finish(ctx, &work, bundle), nil
}

// finish normalizes, optionally enriches, and persists the bundle. A store
// failure leaves Persisted false but still returns the bundle.
func (p *Pipeline) finish(ctx context.Context, novel *model.Novel, bundle *model.Bundle) *model.Bundle {
	bundle.Normalize()

	if p.enricher != nil {
		if err := p.enricher.EnrichBundle(ctx, bundle); err != nil {
			log.Printf("analysis %s: enrichment skipped: %v", novel.ID, err)
		}
	}

	p.progress(95, "writing graph store")
	if p.store != nil {
		if err := p.store.UpsertBundle(ctx, novel.ID, bundle); err != nil {
			log.Printf("analysis %s: graph store write failed: %v", novel.ID, err)
			bundle.Persisted = false
		} else {
			bundle.Persisted = true
		}
	}

	p.progress(100, "done")
	return bundle
}

func (p *Pipeline) emptyBundle(novel *model.Novel) *model.Bundle {
	return &model.Bundle{
		NovelID:  novel.ID,
		Title:    novel.Title,
		Author:   novel.Author,
		Chapters: novel.Chapters,
		Empty:    true,
		Statistics: model.Statistics{
			Chapters: len(novel.Chapters),
			Words:    novel.WordCount(),
		},
	}
}

func (p *Pipeline) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}
	return nil
}
