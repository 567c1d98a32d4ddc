package relation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

func chars(names ...string) ([]model.Character, map[string]string) {
	var cs []model.Character
	aliases := map[string]string{}
	for _, n := range names {
		cs = append(cs, model.Character{Name: n, Aliases: []string{n}})
		aliases[n] = n
	}
	return cs, aliases
}

func novelFrom(chapters ...[]string) *model.Novel {
	n := &model.Novel{ID: "n1"}
	for i, sentences := range chapters {
		n.Chapters = append(n.Chapters, model.Chapter{
			Index:     i + 1,
			Text:      strings.Join(sentences, "。") + "。",
			Sentences: sentences,
		})
	}
	return n
}

func extract(novel *model.Novel, names ...string) []model.Relation {
	cs, aliases := chars(names...)
	return New(config.Default().Analysis, lexicon.Default()).Extract(novel, cs, aliases)
}

func findRelation(t *testing.T, rels []model.Relation, a, b string) model.Relation {
	t.Helper()
	want := model.Relation{From: a, To: b}.PairKey()
	for _, r := range rels {
		if r.PairKey() == want {
			return r
		}
	}
	t.Fatalf("no relation between %s and %s in %v", a, b, rels)
	return model.Relation{}
}

func TestKinPatternStrongAndDirected(t *testing.T) {
	novel := novelFrom([]string{"张三的父亲是李四"})
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	assert.Equal(t, model.RelationKin, r.Type)
	assert.GreaterOrEqual(t, r.Strength, 0.7)
	// Parent points to child.
	assert.Equal(t, "李四", r.From)
	assert.Equal(t, "张三", r.To)
}

func TestFriendPatternToleratesSpacing(t *testing.T) {
	novel := novelFrom([]string{"张三 与 王五 是 朋友"})
	rels := extract(novel, "张三", "王五")

	r := findRelation(t, rels, "张三", "王五")
	assert.Equal(t, model.RelationFriend, r.Type)
	assert.GreaterOrEqual(t, r.Strength, 0.5)
}

func TestMasterPatternDirection(t *testing.T) {
	novel := novelFrom([]string{"张三拜李四为师"})
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	assert.Equal(t, model.RelationMasterDisciple, r.Type)
	assert.Equal(t, "李四", r.From)
	assert.Equal(t, "张三", r.To)
}

func TestCooccurrenceOnlyIsAcquaintance(t *testing.T) {
	novel := novelFrom([]string{"张三和李四同行", "张三看李四", "李四随后跟上"})
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	assert.Equal(t, model.RelationAcquaintance, r.Type)
	assert.Greater(t, r.Strength, 0.0)
	assert.LessOrEqual(t, r.Strength, 1.0)
}

func TestCooccurrenceDoesNotOutvotePattern(t *testing.T) {
	sentences := []string{"张三的父亲是李四"}
	for i := 0; i < 20; i++ {
		sentences = append(sentences, "张三看了看李四")
	}
	novel := novelFrom(sentences)
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	assert.Equal(t, model.RelationKin, r.Type)
}

func TestTypeTieBrokenByPriority(t *testing.T) {
	// kin and enemy both score one pattern hit; kin has priority.
	novel := novelFrom([]string{"张三的父亲是李四", "张三与李四大战"})
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	assert.Equal(t, model.RelationKin, r.Type)
}

func TestDialogueHonorific(t *testing.T) {
	novel := novelFrom([]string{"李四说：“师父，王五他跑了。”"})
	rels := extract(novel, "李四", "王五")

	r := findRelation(t, rels, "李四", "王五")
	assert.Equal(t, model.RelationMasterDisciple, r.Type)
	assert.GreaterOrEqual(t, r.Strength, 0.5)
}

func TestOneRelationPerPair(t *testing.T) {
	novel := novelFrom(
		[]string{"张三的父亲是李四", "张三与李四大战", "张三和李四同行"},
	)
	rels := extract(novel, "张三", "李四")

	assert.Len(t, rels, 1)
}

func TestEvidenceRecorded(t *testing.T) {
	novel := novelFrom(
		[]string{"张三的父亲是李四"},
		[]string{"张三和李四同行"},
	)
	rels := extract(novel, "张三", "李四")

	r := findRelation(t, rels, "张三", "李四")
	require.NotEmpty(t, r.Evidence)
	channels := map[string]bool{}
	chapters := map[int]bool{}
	for _, ev := range r.Evidence {
		channels[ev.Channel] = true
		chapters[ev.Chapter] = true
	}
	assert.True(t, channels[model.EvidencePattern])
	assert.True(t, channels[model.EvidenceCooccurrence])
	assert.True(t, chapters[1])
	assert.True(t, chapters[2])
}
