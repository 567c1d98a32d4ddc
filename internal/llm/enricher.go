package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkweave/inkgraph/internal/model"
)

// maxProfileContexts bounds how many source snippets feed a profile prompt.
const maxProfileContexts = 10

// Enricher annotates a finished bundle with chapter summaries and
// main-character profiles. It never alters any pipeline score.
type Enricher struct {
	LLM LLMClient
}

func NewEnricher(client LLMClient) *Enricher {
	return &Enricher{LLM: client}
}

func (e *Enricher) SummarizeChapter(ctx context.Context, index int, text string) (string, error) {
	prompt := fmt.Sprintf("请用2-3句话总结以下小说第%d章的主要内容：\n\n%s", index, truncate(text, 4000))
	return e.LLM.Generate(ctx, prompt)
}

func (e *Enricher) CharacterProfile(ctx context.Context, name string, contexts []string) (string, error) {
	if len(contexts) > maxProfileContexts {
		contexts = contexts[:maxProfileContexts]
	}
	prompt := fmt.Sprintf("请为小说人物\"%s\"写一段简短画像（性格、身份、经历），基于以下文本片段：\n\n%s",
		name, strings.Join(contexts, "\n"))
	return e.LLM.Generate(ctx, prompt)
}

// EnrichBundle fills Chapter.Summary and main-character Profile fields.
// The first provider error aborts the remaining calls and is returned so the
// caller can log it; the bundle stays valid either way.
func (e *Enricher) EnrichBundle(ctx context.Context, b *model.Bundle) error {
	for i := range b.Chapters {
		summary, err := e.SummarizeChapter(ctx, b.Chapters[i].Index, b.Chapters[i].Text)
		if err != nil {
			return fmt.Errorf("summarize chapter %d: %w", b.Chapters[i].Index, err)
		}
		b.Chapters[i].Summary = strings.TrimSpace(summary)
	}

	for i := range b.Characters {
		c := &b.Characters[i]
		if c.Classification != model.ClassMain {
			continue
		}
		contexts := contextsFor(b, c)
		if len(contexts) == 0 {
			continue
		}
		profile, err := e.CharacterProfile(ctx, c.Name, contexts)
		if err != nil {
			return fmt.Errorf("profile for %s: %w", c.Name, err)
		}
		c.Profile = strings.TrimSpace(profile)
	}

	return nil
}

func contextsFor(b *model.Bundle, c *model.Character) []string {
	var contexts []string
	for _, e := range b.Events {
		for _, p := range e.Participants {
			if p == c.Name {
				contexts = append(contexts, e.Description)
				break
			}
		}
		if len(contexts) >= maxProfileContexts {
			break
		}
	}
	return contexts
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
