// Package relation infers pairwise character relations from windowed
// co-occurrence, a fixed pattern catalogue, and dialogue attribution.
package relation

import (
	"math"
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
	"github.com/inkweave/inkgraph/internal/textproc"
)

const dialogueWeight = 2.0

type Extractor struct {
	cfg      config.AnalysisConfig
	lex      *lexicon.Set
	patterns []Pattern
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set) *Extractor {
	return &Extractor{cfg: cfg, lex: lex, patterns: Catalogue()}
}

// pairState accumulates evidence for one unordered character pair.
// Co-occurrence weight counts toward strength but is typeless: it only
// yields an acquaintance reading when no pattern or dialogue evidence
// exists, so accumulated co-occurrence cannot outvote a typed channel.
type pairState struct {
	a, b     string
	cooc     float64
	weights  map[model.RelationType]float64
	directed map[model.RelationType][2]string
	evidence map[model.Evidence]bool
}

// Extract accumulates the three evidence channels for every unordered pair
// and emits one relation per pair: strength tanh(total/K), type by maximum
// channel weight with the fixed priority order breaking ties.
func (x *Extractor) Extract(novel *model.Novel, characters []model.Character, aliases map[string]string) []model.Relation {
	matcher := newMentionMatcher(characters)
	pairs := make(map[string]*pairState)

	state := func(a, b string) *pairState {
		if b < a {
			a, b = b, a
		}
		key := a + "\x00" + b
		p := pairs[key]
		if p == nil {
			p = &pairState{
				a: a, b: b,
				weights:  make(map[model.RelationType]float64),
				directed: make(map[model.RelationType][2]string),
				evidence: make(map[model.Evidence]bool),
			}
			pairs[key] = p
		}
		return p
	}

	for _, ch := range novel.Chapters {
		x.collectCooccurrence(ch, matcher, state)
		x.collectPatterns(ch, aliases, state)
		x.collectDialogue(ch, matcher, aliases, state)
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var relations []model.Relation
	for _, k := range keys {
		p := pairs[k]
		total := p.cooc
		best := model.RelationUnknown
		bestWeight := 0.0
		for typ, w := range p.weights {
			total += w
			if w > bestWeight || (w == bestWeight && model.RelationPriority(typ) < model.RelationPriority(best)) {
				best, bestWeight = typ, w
			}
		}
		if total == 0 {
			continue
		}
		if best == model.RelationUnknown {
			best = model.RelationAcquaintance
		}

		from, to := p.a, p.b
		if dir, ok := p.directed[best]; ok {
			from, to = dir[0], dir[1]
		}

		var evidence []model.Evidence
		for ev := range p.evidence {
			evidence = append(evidence, ev)
		}
		sort.Slice(evidence, func(i, j int) bool {
			if evidence[i].Chapter != evidence[j].Chapter {
				return evidence[i].Chapter < evidence[j].Chapter
			}
			return evidence[i].Channel < evidence[j].Channel
		})

		relations = append(relations, model.Relation{
			From:     from,
			To:       to,
			Type:     best,
			Strength: math.Tanh(total / x.cfg.StrengthK),
			Evidence: evidence,
		})
	}

	return relations
}

// collectCooccurrence adds weight 1/(distance+1) for every pair of mentions
// at most SentenceWindow-1 sentences apart. Co-occurrence alone only ever
// supports an acquaintance reading.
func (x *Extractor) collectCooccurrence(ch model.Chapter, matcher *mentionMatcher, state func(a, b string) *pairState) {
	window := x.cfg.SentenceWindow
	if window < 1 {
		window = 1
	}
	present := make([][]string, len(ch.Sentences))
	for i, s := range ch.Sentences {
		present[i] = matcher.charactersIn(s)
	}

	for i := range present {
		for d := 0; d < window && i+d < len(present); d++ {
			j := i + d
			weight := 1.0 / float64(d+1)
			for _, a := range present[i] {
				for _, b := range present[j] {
					if a == b {
						continue
					}
					if d == 0 && a > b {
						continue // each same-sentence pair once
					}
					p := state(a, b)
					p.cooc += weight
					p.evidence[model.Evidence{Chapter: ch.Index, Channel: model.EvidenceCooccurrence}] = true
				}
			}
		}
	}
}

func (x *Extractor) collectPatterns(ch model.Chapter, aliases map[string]string, state func(a, b string) *pairState) {
	for _, sentence := range ch.Sentences {
		for _, pat := range x.patterns {
			for _, m := range pat.Re.FindAllStringSubmatch(sentence, -1) {
				a, okA := aliases[m[pat.AIdx]]
				b, okB := aliases[m[pat.BIdx]]
				if !okA || !okB || a == b {
					continue
				}
				p := state(a, b)
				p.weights[pat.Type] += pat.Weight
				p.evidence[model.Evidence{Chapter: ch.Index, Channel: model.EvidencePattern}] = true
				if pat.Directed {
					if _, seen := p.directed[pat.Type]; !seen {
						p.directed[pat.Type] = [2]string{a, b}
					}
				}
			}
		}
	}
}

// collectDialogue records kinship/honorific address: speaker X uttering a
// term like 父亲 or 师父 toward another character named in the quote.
func (x *Extractor) collectDialogue(ch model.Chapter, matcher *mentionMatcher, aliases map[string]string, state func(a, b string) *pairState) {
	for _, d := range textproc.ExtractDialogues(ch.Text) {
		speaker, ok := aliases[d.Speaker]
		if !ok {
			continue
		}
		term, typ := x.honorificIn(d.Content)
		if term == "" {
			continue
		}
		for _, target := range matcher.charactersIn(d.Content) {
			if target == speaker {
				continue
			}
			p := state(speaker, target)
			p.weights[typ] += dialogueWeight
			p.evidence[model.Evidence{Chapter: ch.Index, Channel: model.EvidenceDialogue}] = true
			if _, seen := p.directed[typ]; !seen {
				// The addressed side holds the senior role.
				p.directed[typ] = [2]string{target, speaker}
			}
			break
		}
	}
}

func (x *Extractor) honorificIn(content string) (string, model.RelationType) {
	terms := make([]string, 0, len(x.lex.Honorifics))
	for t := range x.lex.Honorifics {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for _, t := range terms {
		if strings.Contains(content, t) {
			return t, model.RelationType(x.lex.Honorifics[t])
		}
	}
	return "", model.RelationUnknown
}

// mentionMatcher finds characters in a sentence through any of their aliases.
type mentionMatcher struct {
	names   []string // canonical, sorted
	aliases map[string][]string
}

func newMentionMatcher(characters []model.Character) *mentionMatcher {
	m := &mentionMatcher{aliases: make(map[string][]string, len(characters))}
	for _, c := range characters {
		m.names = append(m.names, c.Name)
		m.aliases[c.Name] = c.Aliases
	}
	sort.Strings(m.names)
	return m
}

func (m *mentionMatcher) charactersIn(text string) []string {
	var found []string
	for _, name := range m.names {
		for _, alias := range m.aliases[name] {
			if strings.Contains(text, alias) {
				found = append(found, name)
				break
			}
		}
	}
	return found
}
