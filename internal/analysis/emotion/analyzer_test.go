package emotion

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

func chapters(sentences ...[]string) *model.Novel {
	n := &model.Novel{ID: "n1"}
	for i, s := range sentences {
		n.Chapters = append(n.Chapters, model.Chapter{Index: i + 1, Sentences: s})
	}
	return n
}

func TestSentenceSentiment(t *testing.T) {
	a := testAnalyzer()

	assert.Equal(t, 1.0, a.SentenceSentiment("张三很开心"))
	assert.Equal(t, -1.0, a.SentenceSentiment("李四十分悲伤"))
	assert.Equal(t, 0.0, a.SentenceSentiment("张三走了"))
}

func TestDistributionSumsToOne(t *testing.T) {
	novel := chapters(
		[]string{"张三很开心", "李四悲伤"},
		[]string{"毫无情感词的句子"},
	)

	res := testAnalyzer().Analyze(novel, testCharacters())
	require.Len(t, res.ChapterEmotions, 2)
	for _, ce := range res.ChapterEmotions {
		assert.InDelta(t, 1.0, ce.Distribution.Sum(), 1e-6)
		assert.GreaterOrEqual(t, ce.Sentiment, -1.0)
		assert.LessOrEqual(t, ce.Sentiment, 1.0)
	}
	// A chapter without any hit is uniform.
	assert.InDelta(t, 1.0/6.0, res.ChapterEmotions[1].Distribution.Joy, 1e-9)
}

func TestTroughDetected(t *testing.T) {
	novel := chapters(
		[]string{"张三来了"},
		[]string{"张三很开心", "李四十分高兴", "大家欢喜"},
		[]string{"张三与李四大战"},
		[]string{"于是张三受伤", "张三痛苦万分", "李四伤心流泪"},
		[]string{"张三大笑", "李四归来", "王五回家"},
	)

	res := testAnalyzer().Analyze(novel, testCharacters())

	var low *model.EmotionalPeak
	for i := range res.Peaks {
		if res.Peaks[i].Kind == model.PeakLow {
			low = &res.Peaks[i]
		}
	}
	require.NotNil(t, low)
	assert.Equal(t, 4, low.Chapter)
	assert.Negative(t, low.Sentiment)
}

func TestPlateauPicksEarliestChapter(t *testing.T) {
	// Sentiments: 0, 1, 1, 0, 0 — the high plateau starts at chapter 2 and
	// the low plateau after it starts at chapter 4.
	novel := chapters(
		[]string{"平平无奇"},
		[]string{"张三很开心"},
		[]string{"李四很高兴"},
		[]string{"无事发生"},
		[]string{"依旧无事"},
	)

	res := testAnalyzer().Analyze(novel, testCharacters())

	require.Len(t, res.Peaks, 2)
	assert.Equal(t, model.PeakHigh, res.Peaks[0].Kind)
	assert.Equal(t, 2, res.Peaks[0].Chapter)
	assert.Equal(t, model.PeakLow, res.Peaks[1].Kind)
	assert.Equal(t, 4, res.Peaks[1].Chapter)
}

func TestDirectedEmotion(t *testing.T) {
	novel := chapters(
		[]string{"张三与李四大战，李四愤怒"},
	)

	res := testAnalyzer().Analyze(novel, testCharacters())

	require.NotEmpty(t, res.CharacterEmotions)
	byPair := map[string]model.CharacterEmotion{}
	for _, ce := range res.CharacterEmotions {
		byPair[ce.Source+"->"+ce.Target] = ce
	}
	ce, ok := byPair["张三->李四"]
	require.True(t, ok)
	assert.Equal(t, "anger", ce.Emotion)
	assert.Equal(t, 1, ce.Chapter)
	assert.Greater(t, ce.Intensity, 0.0)
	assert.LessOrEqual(t, ce.Intensity, 1.0)
}

func TestCurveMatchesChapters(t *testing.T) {
	novel := chapters(
		[]string{"张三很开心"},
		[]string{"李四悲伤"},
	)

	res := testAnalyzer().Analyze(novel, testCharacters())
	require.Len(t, res.Curve, 2)
	assert.Equal(t, 1, res.Curve[0].Chapter)
	assert.Positive(t, res.Curve[0].Sentiment)
	assert.Negative(t, res.Curve[1].Sentiment)
}
