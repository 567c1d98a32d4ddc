package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

func testAnalyzer() *Analyzer {
	return New(config.Default().Analysis, lexicon.Default())
}

func testCharacters() []model.Character {
	return []model.Character{
		{Name: "张三", Aliases: []string{"张三"}},
		{Name: "李四", Aliases: []string{"李四"}},
	}
}

func testNovel(sentences []string) *model.Novel {
	return &model.Novel{
		ID: "n1",
		Chapters: []model.Chapter{
			{Index: 3, Sentences: sentences},
		},
	}
}

func TestDetectConflictEvent(t *testing.T) {
	novel := testNovel([]string{
		"突然，张三与李四大战",
		"张三在青云山修炼",
		"无人的场景描写",
	})
	locations := []model.Location{{Name: "青云山"}}

	events := testAnalyzer().Detect(novel, testCharacters(), locations)
	require.Len(t, events, 2)

	conflict := events[0]
	assert.Equal(t, 3, conflict.Chapter)
	assert.Equal(t, 0, conflict.Sequence)
	assert.Equal(t, model.EventConflict, conflict.Type)
	assert.ElementsMatch(t, []string{"张三", "李四"}, conflict.Participants)
	assert.True(t, conflict.TurningPoint)
	assert.Equal(t, model.EventID(3, 0), conflict.ID)

	training := events[1]
	assert.Equal(t, model.EventOther, training.Type)
	assert.Equal(t, "青云山", training.Location)
}

func TestDetectRequiresParticipant(t *testing.T) {
	novel := testNovel([]string{"大战爆发了"})

	events := testAnalyzer().Detect(novel, testCharacters(), nil)
	assert.Empty(t, events)
}

func TestDetectTurningCueWithoutVerb(t *testing.T) {
	novel := testNovel([]string{"从此张三隐居"})

	events := testAnalyzer().Detect(novel, testCharacters(), nil)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTurningPoint, events[0].Type)
	assert.True(t, events[0].TurningPoint)
}

func TestLocationBackWindow(t *testing.T) {
	sentences := []string{"张三来到青云山"}
	for i := 0; i < 10; i++ {
		sentences = append(sentences, "无关叙述继续")
	}
	sentences = append(sentences, "张三见李四")
	novel := testNovel(sentences)
	locations := []model.Location{{Name: "青云山"}}

	events := testAnalyzer().Detect(novel, testCharacters(), locations)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	// The location mention fell out of the back-window.
	assert.Equal(t, "", last.Location)
}

func TestScoreImportance(t *testing.T) {
	a := testAnalyzer()
	novel := testNovel([]string{
		"突然，张三与李四大战",
		"张三在青云山修炼",
		"无人的场景描写",
	})
	events := a.Detect(novel, testCharacters(), nil)
	require.Len(t, events, 2)

	scored := a.ScoreImportance(events, novel, map[string]float64{"张三": 0.9, "李四": 0.6})

	conflict := scored[0]
	// 0.4*0.9 + 0.3*1.0 + 0.2*1.0 + 0.1*1.0 (first sentence of the chapter)
	assert.InDelta(t, 0.96, conflict.Importance, 1e-9)
	assert.GreaterOrEqual(t, conflict.Importance, 0.6)

	for _, e := range scored {
		assert.GreaterOrEqual(t, e.Importance, 0.0)
		assert.LessOrEqual(t, e.Importance, 1.0)
	}
}
