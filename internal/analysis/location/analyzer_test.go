package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/model"
)

func testLocations() []model.Location {
	return []model.Location{
		{Name: "青云山", Type: model.LocationMountain},
		{Name: "藏经阁", Type: model.LocationBuilding},
	}
}

func testEvents() []model.Event {
	return []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1, Importance: 0.9,
			Location: "青云山", Participants: []string{"张三", "李四"}},
		{ID: model.EventID(1, 4), Chapter: 1, Sequence: 4, Importance: 0.5,
			Location: "藏经阁", Participants: []string{"张三"}},
		{ID: model.EventID(2, 2), Chapter: 2, Sequence: 2, Importance: 0.3,
			Location: "青云山", Participants: []string{"李四"}},
	}
}

func TestAnalyzeCountsAndImportance(t *testing.T) {
	novel := &model.Novel{Chapters: []model.Chapter{{Index: 1}, {Index: 2}}}
	characters := []model.Character{
		{Name: "张三", Aliases: []string{"张三"}},
		{Name: "李四", Aliases: []string{"李四"}},
	}

	res := New(config.Default().Analysis).Analyze(novel, testLocations(), characters, testEvents())

	byName := map[string]model.Location{}
	for _, l := range res.Locations {
		byName[l.Name] = l
	}
	assert.Equal(t, 2, byName["青云山"].EventCount)
	assert.Equal(t, 1, byName["藏经阁"].EventCount)
	// 青云山 carries more event importance and more distinct visitors.
	assert.InDelta(t, 1.0, byName["青云山"].Importance, 1e-9)
	assert.InDelta(t, 0.0, byName["藏经阁"].Importance, 1e-9)
}

func TestSceneTransitions(t *testing.T) {
	novel := &model.Novel{Chapters: []model.Chapter{{Index: 1}, {Index: 2}}}

	res := New(config.Default().Analysis).Analyze(novel, testLocations(), nil, testEvents())

	require.Len(t, res.Transitions, 2)
	assert.Equal(t, "青云山", res.Transitions[0].From)
	assert.Equal(t, "藏经阁", res.Transitions[0].To)
	assert.Equal(t, model.EventID(1, 4), res.Transitions[0].EventID)
	assert.Equal(t, "藏经阁", res.Transitions[1].From)
	assert.Equal(t, "青云山", res.Transitions[1].To)
	assert.Equal(t, 2, res.Transitions[1].Chapter)
}

func TestVisitsFromEventsAndMentions(t *testing.T) {
	novel := &model.Novel{Chapters: []model.Chapter{
		{Index: 1, Sentences: []string{"张三在青云山打坐"}},
		{Index: 2},
	}}
	characters := []model.Character{{Name: "张三", Aliases: []string{"张三"}}}

	res := New(config.Default().Analysis).Analyze(novel, testLocations(), characters, testEvents())

	var zhangVisit *model.Visit
	for i := range res.Visits {
		v := &res.Visits[i]
		if v.Character == "张三" && v.Location == "青云山" && v.Chapter == 1 {
			zhangVisit = v
		}
	}
	require.NotNil(t, zhangVisit)
	// One from event participation plus one explicit mention.
	assert.Equal(t, 2, zhangVisit.Count)
}

func TestNoTransitionWithinSameLocation(t *testing.T) {
	novel := &model.Novel{Chapters: []model.Chapter{{Index: 1}}}
	events := []model.Event{
		{ID: model.EventID(1, 1), Chapter: 1, Sequence: 1, Location: "青云山"},
		{ID: model.EventID(1, 2), Chapter: 1, Sequence: 2, Location: "青云山"},
	}

	res := New(config.Default().Analysis).Analyze(novel, testLocations()[:1], nil, events)
	assert.Empty(t, res.Transitions)
}
