package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrdersEverything(t *testing.T) {
	a := &Bundle{
		Characters: []Character{{Name: "乙"}, {Name: "甲", Aliases: []string{"甲乙", "甲"}}},
		Events: []Event{
			{ID: "ev-002-0001", Chapter: 2, Sequence: 1},
			{ID: "ev-001-0005", Chapter: 1, Sequence: 5},
		},
		Relations: []Relation{
			{From: "乙", To: "甲", Type: RelationFriend},
			{From: "甲", To: "乙", Type: RelationKin},
		},
		Visits: []Visit{
			{Character: "乙", Location: "x", Chapter: 2},
			{Character: "甲", Location: "x", Chapter: 1},
		},
	}
	b := &Bundle{
		Characters: []Character{{Name: "甲", Aliases: []string{"甲", "甲乙"}}, {Name: "乙"}},
		Events: []Event{
			{ID: "ev-001-0005", Chapter: 1, Sequence: 5},
			{ID: "ev-002-0001", Chapter: 2, Sequence: 1},
		},
		Relations: []Relation{
			{From: "甲", To: "乙", Type: RelationKin},
			{From: "乙", To: "甲", Type: RelationFriend},
		},
		Visits: []Visit{
			{Character: "甲", Location: "x", Chapter: 1},
			{Character: "乙", Location: "x", Chapter: 2},
		},
	}

	a.Normalize()
	b.Normalize()
	assert.Equal(t, a, b)

	assert.Equal(t, "乙", a.Characters[0].Name)
	assert.True(t, a.Events[0].Before(&a.Events[1]))
}

func TestRelationPairKeyUnordered(t *testing.T) {
	r1 := Relation{From: "甲", To: "乙"}
	r2 := Relation{From: "乙", To: "甲"}
	assert.Equal(t, r1.PairKey(), r2.PairKey())
}

func TestRelationPriorityOrder(t *testing.T) {
	order := []RelationType{
		RelationKin, RelationMasterDisciple, RelationLover, RelationFriend,
		RelationEnemy, RelationColleague, RelationAcquaintance, RelationUnknown,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, RelationPriority(order[i-1]), RelationPriority(order[i]))
	}
}

func TestEmotionDistribution(t *testing.T) {
	d := EmotionDistribution{Joy: 0.5, Sadness: 0.25, Anger: 0.25}
	assert.InDelta(t, 1.0, d.Sum(), 1e-9)
	assert.Equal(t, "joy", d.Dominant())
	assert.Equal(t, "neutral", EmotionDistribution{}.Dominant())
}

func TestEventID(t *testing.T) {
	assert.Equal(t, "ev-003-0012", EventID(3, 12))
}

func TestBundleLookups(t *testing.T) {
	b := &Bundle{
		Characters: []Character{{Name: "甲"}},
		Events:     []Event{{ID: "ev-001-0001"}},
	}
	require.NotNil(t, b.CharacterByName("甲"))
	assert.Nil(t, b.CharacterByName("丙"))
	require.NotNil(t, b.EventByID("ev-001-0001"))
	assert.Nil(t, b.EventByID("ev-009-0009"))
}
