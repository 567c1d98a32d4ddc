package timeline

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

func mainCharacters() []model.Character {
	return []model.Character{
		{Name: "张三", Importance: 0.9, Classification: model.ClassMain},
		{Name: "李四", Importance: 0.6, Classification: model.ClassSupporting},
	}
}

func TestAnalyzeOrdersEvents(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(2, 1), Chapter: 2, Sequence: 1, Participants: []string{"张三"}},
		{ID: model.EventID(1, 4), Chapter: 1, Sequence: 4, Participants: []string{"张三"}},
		{ID: model.EventID(1, 2), Chapter: 1, Sequence: 2, Participants: []string{"张三"}},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())
	require.Len(t, res.Events, 3)
	for i := 1; i < len(res.Events); i++ {
		assert.True(t, res.Events[i-1].Before(&res.Events[i]))
	}
}

func TestCausalLinkFromConsequenceCue(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(3, 5), Chapter: 3, Sequence: 5, Importance: 0.8,
			Participants: []string{"张三", "李四"}, Description: "张三与李四大战"},
		{ID: model.EventID(4, 2), Chapter: 4, Sequence: 2, Importance: 0.5,
			Participants: []string{"张三"}, Description: "于是张三受伤"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())
	require.Len(t, res.Causality, 1)
	link := res.Causality[0]
	assert.Equal(t, model.EventID(3, 5), link.From)
	assert.Equal(t, model.EventID(4, 2), link.To)
	assert.GreaterOrEqual(t, link.Strength, 0.4)
}

func TestCausalLinksRespectOrder(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1, Importance: 0.8,
			Participants: []string{"张三"}, Description: "于是张三出发"},
		{ID: model.EventID(1, 3), Chapter: 1, Sequence: 3, Importance: 0.8,
			Participants: []string{"张三"}, Description: "于是张三抵达"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())
	index := map[string]*model.Event{}
	for i := range res.Events {
		index[res.Events[i].ID] = &res.Events[i]
	}
	for _, l := range res.Causality {
		assert.True(t, index[l.From].Before(index[l.To]), "cause must precede effect")
	}
}

func TestCausalRequiresSharedParticipant(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1, Importance: 0.8,
			Participants: []string{"张三"}, Description: "张三出手"},
		{ID: model.EventID(1, 2), Chapter: 1, Sequence: 2, Importance: 0.8,
			Participants: []string{"李四"}, Description: "于是李四逃走"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())
	assert.Empty(t, res.Causality)
}

func TestHierarchyForest(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(2, 1), Chapter: 2, Sequence: 1, Importance: 0.9,
			Participants: []string{"张三", "李四"}, Description: "大战"},
		{ID: model.EventID(2, 3), Chapter: 2, Sequence: 3, Importance: 0.4,
			Participants: []string{"张三", "李四"}, Description: "缠斗"},
		{ID: model.EventID(2, 20), Chapter: 2, Sequence: 20, Importance: 0.4,
			Participants: []string{"张三", "李四"}, Description: "远处另一幕"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())
	byID := map[string]model.Event{}
	for _, e := range res.Events {
		byID[e.ID] = e
	}

	assert.Equal(t, model.EventID(2, 1), byID[model.EventID(2, 3)].ParentID)
	// Outside the sentence window: stays a root.
	assert.Empty(t, byID[model.EventID(2, 20)].ParentID)
	// Parents outscore children, so no cycles are possible.
	assert.Empty(t, byID[model.EventID(2, 1)].ParentID)
}

func TestTimeMarkers(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1,
			Participants: []string{"张三"}, Description: "三日后，张三归来"},
		{ID: model.EventID(1, 2), Chapter: 1, Sequence: 2,
			Participants: []string{"张三"}, Description: "三月初三，张三赴会"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())

	require.NotNil(t, res.Events[0].TimeMarker)
	assert.Equal(t, "relative", res.Events[0].TimeMarker.Kind)
	assert.Equal(t, "三日后", res.Events[0].TimeMarker.Text)

	require.NotNil(t, res.Events[1].TimeMarker)
	assert.Equal(t, "absolute", res.Events[1].TimeMarker.Kind)
}

func TestContributionNormalizedAndMainPlotSubset(t *testing.T) {
	events := []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1, Importance: 0.9,
			Participants: []string{"张三", "李四"}, Description: "张三与李四大战"},
		{ID: model.EventID(1, 5), Chapter: 1, Sequence: 5, Importance: 0.4,
			Participants: []string{"李四"}, Description: "李四独行"},
		{ID: model.EventID(2, 1), Chapter: 2, Sequence: 1, Importance: 0.7,
			Participants: []string{"张三"}, Description: "于是张三疗伤"},
	}

	res := testAnalyzer().Analyze(events, mainCharacters())

	ids := map[string]bool{}
	seenMax := 0.0
	for _, e := range res.Events {
		ids[e.ID] = true
		assert.GreaterOrEqual(t, e.Contribution, 0.0)
		assert.LessOrEqual(t, e.Contribution, 1.0)
		if e.Contribution > seenMax {
			seenMax = e.Contribution
		}
	}
	assert.InDelta(t, 1.0, seenMax, 1e-9) // min-max normalization tops out at 1

	assert.LessOrEqual(t, len(res.MainPlotIDs), len(res.Events))
	for _, id := range res.MainPlotIDs {
		assert.True(t, ids[id])
	}
}

func TestAugmentCausalityFromTransitions(t *testing.T) {
	a := testAnalyzer()
	events := []model.Event{
		{ID: model.EventID(3, 1), Chapter: 3, Sequence: 1, Importance: 0.9,
			Participants: []string{"张三", "李四"}, Description: "张三与李四大战"},
		{ID: model.EventID(4, 1), Chapter: 4, Sequence: 1, Importance: 0.5,
			Participants: []string{"张三"}, Description: "张三养伤"},
	}
	res := a.Analyze(events, mainCharacters())
	require.Empty(t, res.Causality) // no consequence cue anywhere

	a.AugmentCausality(res, []model.StateTransition{
		{Character: "张三", Axis: model.AxisHealth, FromChapter: 3, ToChapter: 4,
			Delta: -0.2, CauseEventID: model.EventID(3, 1)},
	})

	require.Len(t, res.Causality, 1)
	assert.Equal(t, model.EventID(3, 1), res.Causality[0].From)
	assert.Equal(t, model.EventID(4, 1), res.Causality[0].To)
	assert.Greater(t, res.Causality[0].Strength, 0.0)
}
