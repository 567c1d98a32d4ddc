package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/model"
)

type fakeClient struct {
	calls int
	fail  bool
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.fail {
		return "", fmt.Errorf("provider down")
	}
	return fmt.Sprintf("生成结果 %d", f.calls), nil
}

func sampleBundle() *model.Bundle {
	return &model.Bundle{
		Chapters: []model.Chapter{
			{Index: 1, Text: "第一章正文"},
			{Index: 2, Text: "第二章正文"},
		},
		Characters: []model.Character{
			{Name: "张三", Classification: model.ClassMain},
			{Name: "李四", Classification: model.ClassSupporting},
		},
		Events: []model.Event{
			{ID: model.EventID(1, 0), Description: "张三出手", Participants: []string{"张三"}},
		},
	}
}

func TestEnrichBundleFillsSummariesAndProfiles(t *testing.T) {
	client := &fakeClient{}
	b := sampleBundle()

	require.NoError(t, NewEnricher(client).EnrichBundle(context.Background(), b))

	assert.NotEmpty(t, b.Chapters[0].Summary)
	assert.NotEmpty(t, b.Chapters[1].Summary)
	assert.NotEmpty(t, b.Characters[0].Profile)
	// Supporting characters are not profiled.
	assert.Empty(t, b.Characters[1].Profile)
}

func TestEnrichBundlePropagatesProviderError(t *testing.T) {
	client := &fakeClient{fail: true}
	b := sampleBundle()

	err := NewEnricher(client).EnrichBundle(context.Background(), b)
	assert.Error(t, err)
	// Scores and structure stay untouched on failure.
	assert.Empty(t, b.Chapters[0].Summary)
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), configFor("nope"))
	assert.Error(t, err)
}

func TestFactoryBuildsOpenAI(t *testing.T) {
	c, err := NewClient(context.Background(), configFor("openai"))
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
}

func TestFactoryOllamaUsesOpenAICompatibleClient(t *testing.T) {
	c, err := NewClient(context.Background(), configFor("ollama"))
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
}

func configFor(provider string) config.LLMConfig {
	return config.LLMConfig{Provider: provider, Model: "m", APIKey: "k"}
}
