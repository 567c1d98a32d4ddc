package relation

import (
	"regexp"

	"github.com/inkweave/inkgraph/internal/model"
)

// Pattern is one relation-indicative template. AIdx/BIdx are the capture
// groups holding the two names; for directed types the edge runs A→B
// (kin parent→child, master→disciple).
type Pattern struct {
	Re       *regexp.Regexp
	Type     model.RelationType
	Weight   float64
	Directed bool
	AIdx     int
	BIdx     int
}

const name = `([\p{Han}]{2,4})`

// PatternWeight is the base weight of a catalogue match; it dominates a
// single co-occurrence 3:1.
const PatternWeight = 3.0

// Catalogue returns the fixed relation pattern set. Whitespace between
// components is tolerated so both running text and spaced test fixtures match.
func Catalogue() []Pattern {
	mk := func(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }
	return []Pattern{
		// X的父亲是Y: Y is the parent, edge Y→X.
		{mk(name + `\s*的\s*(?:父亲|母亲|爹爹|爷爷|奶奶)\s*是\s*` + name), model.RelationKin, PatternWeight, true, 2, 1},
		// X是Y的父亲: X is the parent, edge X→Y.
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:父亲|母亲)`), model.RelationKin, PatternWeight, true, 1, 2},
		// X是Y的儿子: Y is the parent, edge Y→X.
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:儿子|女儿)`), model.RelationKin, PatternWeight, true, 2, 1},
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:哥哥|弟弟|姐姐|妹妹)`), model.RelationKin, PatternWeight, false, 1, 2},
		{mk(name + `\s*[与和]\s*` + name + `\s*(?:是|乃|结为)\s*(?:兄弟|姐妹|姐弟|兄妹|父子|母女|一家)`), model.RelationKin, PatternWeight, false, 1, 2},

		// X拜Y为师: Y is the master, edge Y→X.
		{mk(name + `\s*[拜认]\s*` + name + `\s*为\s*师`), model.RelationMasterDisciple, PatternWeight, true, 2, 1},
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:师父|师傅|师尊)`), model.RelationMasterDisciple, PatternWeight, true, 1, 2},
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:徒弟|弟子|高徒)`), model.RelationMasterDisciple, PatternWeight, true, 2, 1},
		{mk(name + `\s*收\s*` + name + `\s*为\s*[徒弟]`), model.RelationMasterDisciple, PatternWeight, true, 1, 2},

		{mk(name + `\s*[与和]\s*` + name + `\s*(?:相爱|相恋|定情|成亲|喜结连理)`), model.RelationLover, PatternWeight, false, 1, 2},
		{mk(name + `\s*爱(?:上|着)\s*` + name), model.RelationLover, PatternWeight, true, 1, 2},

		{mk(name + `\s*[与和]\s*` + name + `\s*(?:是|成为|结为)\s*(?:朋友|好友|知己|挚友)`), model.RelationFriend, PatternWeight, false, 1, 2},
		{mk(name + `\s*与\s*` + name + `\s*交好`), model.RelationFriend, PatternWeight, false, 1, 2},

		{mk(name + `\s*[与和]\s*` + name + `\s*(?:为敌|敌对|结仇|反目)`), model.RelationEnemy, PatternWeight, false, 1, 2},
		{mk(name + `\s*是\s*` + name + `\s*的\s*(?:敌人|仇人|死敌|对手)`), model.RelationEnemy, PatternWeight, false, 1, 2},
		{mk(name + `\s*[与和]\s*` + name + `\s*(?:大战|交战|厮杀|激战)`), model.RelationEnemy, PatternWeight, false, 1, 2},

		{mk(name + `\s*[与和]\s*` + name + `\s*(?:是|同为)\s*(?:同门|同僚|同窗|师兄弟|师姐妹)`), model.RelationColleague, PatternWeight, false, 1, 2},
	}
}
