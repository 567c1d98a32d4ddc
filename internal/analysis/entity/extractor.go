// Package entity extracts character and location candidates from the chapter
// token streams and collapses character aliases into canonical identities.
package entity

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
	"github.com/inkweave/inkgraph/internal/textproc"
)

// ErrNoEntities marks a degenerate text: fewer than two characters survived
// the mention filter. Downstream analyzers are undefined on such input.
var ErrNoEntities = errors.New("fewer than two characters found")

var appositiveRe = regexp.MustCompile(`([\p{Han}]{2,4})[，,]?\s*(?:也就是|即|人称|又名|外号)\s*([\p{Han}]{2,4})`)
var selfIntroRe = regexp.MustCompile(`(?:我乃|我是|我叫|在下)\s*([\p{Han}]{2,4})`)

// Result carries the surviving entities plus the surface→canonical alias map
// every later stage uses for mention lookup.
type Result struct {
	Characters []model.Character
	Locations  []model.Location
	Aliases    map[string]string
}

type Extractor struct {
	cfg  config.AnalysisConfig
	lex  *lexicon.Set
	proc *textproc.Processor
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set, proc *textproc.Processor) *Extractor {
	return &Extractor{cfg: cfg, lex: lex, proc: proc}
}

// Extract scans every chapter (Sentences must be filled), learns multi-rune
// names, counts mentions, merges aliases and filters by min_mentions. The
// alias merge is a union-find, so the equivalence classes do not depend on
// chapter processing order.
func (e *Extractor) Extract(novel *model.Novel) (*Result, error) {
	if reg, ok := e.proc.Tokenizer().(textproc.NameRegistrar); ok {
		for _, name := range e.learnNames(novel) {
			reg.AddName(name)
		}
	}

	type mention struct {
		count    int
		chapters map[int]bool
	}
	names := make(map[string]*mention)
	places := make(map[string]*mention)

	record := func(table map[string]*mention, key string, chapter int) {
		m := table[key]
		if m == nil {
			m = &mention{chapters: make(map[int]bool)}
			table[key] = m
		}
		m.count++
		m.chapters[chapter] = true
	}

	for _, ch := range novel.Chapters {
		for _, sentence := range ch.Sentences {
			for _, n := range e.proc.Names(sentence) {
				if e.lex.StopWords[n] || len([]rune(n)) < 2 {
					continue
				}
				record(names, n, ch.Index)
			}
			for _, p := range e.proc.Places(sentence) {
				record(places, p, ch.Index)
			}
		}
	}

	surviving := make([]string, 0, len(names))
	for n, m := range names {
		if m.count >= e.cfg.MinMentions {
			surviving = append(surviving, n)
		}
	}
	sort.Strings(surviving)

	classes := e.mergeAliases(novel, surviving)

	aliasOf := make(map[string]string)
	var characters []model.Character
	for _, class := range classes {
		canonical := canonicalName(class)
		char := model.Character{
			Name:    canonical,
			Aliases: append([]string(nil), class...),
		}
		chapters := make(map[int]bool)
		first := 0
		for _, surface := range class {
			aliasOf[surface] = canonical
			m := names[surface]
			char.MentionCount += m.count
			for c := range m.chapters {
				chapters[c] = true
				if first == 0 || c < first {
					first = c
				}
			}
		}
		char.FirstAppearance = first
		for c := range chapters {
			char.Chapters = append(char.Chapters, c)
		}
		sort.Ints(char.Chapters)
		sort.Strings(char.Aliases)
		characters = append(characters, char)
	}
	sort.Slice(characters, func(i, j int) bool { return characters[i].Name < characters[j].Name })

	if len(characters) < 2 {
		return nil, ErrNoEntities
	}

	var locations []model.Location
	for name, m := range places {
		if m.count < e.cfg.MinMentions {
			continue
		}
		loc := model.Location{
			Name:         name,
			Type:         placeType(e.proc, name),
			MentionCount: m.count,
		}
		for c := range m.chapters {
			loc.Chapters = append(loc.Chapters, c)
		}
		sort.Ints(loc.Chapters)
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })

	return &Result{Characters: characters, Locations: locations, Aliases: aliasOf}, nil
}

// learnNames counts surname-initiated trigrams across the whole novel and
// promotes frequent ones to dictionary names, so 三-rune names beat the
// tokenizer's two-rune surname heuristic.
func (e *Extractor) learnNames(novel *model.Novel) []string {
	counts := make(map[string]int)
	for _, ch := range novel.Chapters {
		runes := []rune(ch.Text)
		for i := 0; i+2 < len(runes); i++ {
			if !e.lex.Surnames[runes[i]] {
				continue
			}
			second, third := runes[i+1], runes[i+2]
			if !isHan(second) || !isHan(third) {
				continue
			}
			if e.lex.FunctionChars[second] || e.lex.FunctionChars[third] {
				continue
			}
			if _, place := e.lex.PlaceSuffixes[third]; place {
				continue
			}
			// A trailing event verb (张三见…) is a verb, not a name rune.
			if _, verb := e.lex.EventVerbs[string(third)]; verb {
				continue
			}
			counts[string(runes[i:i+3])]++
		}
	}

	var learned []string
	for name, count := range counts {
		if count >= e.cfg.MinMentions {
			learned = append(learned, name)
		}
	}
	sort.Strings(learned)
	return learned
}

// mergeAliases builds equivalence classes over the surviving names. Two
// names join when one is a rune-suffix of the other and they stand together
// in a sentence often enough, when an appositive names them as one, or when
// a self-introduction inside a dialogue binds the speaker to a name.
func (e *Extractor) mergeAliases(novel *model.Novel, names []string) [][]string {
	uf := newUnionFind(names)
	index := make(map[string]bool, len(names))
	for _, n := range names {
		index[n] = true
	}

	cooc := make(map[string]int)
	for _, ch := range novel.Chapters {
		for _, sentence := range ch.Sentences {
			for i := 0; i < len(names); i++ {
				for j := i + 1; j < len(names); j++ {
					a, b := names[i], names[j]
					if !isSuffixPair(a, b) {
						continue
					}
					short, long := a, b
					if len([]rune(a)) > len([]rune(b)) {
						short, long = b, a
					}
					// The short form must stand on its own at least once,
					// not only inside the long form.
					if strings.Count(sentence, short) > strings.Count(sentence, long) && strings.Contains(sentence, long) {
						cooc[a+"\x00"+b]++
					}
				}
			}
		}

		for _, m := range appositiveRe.FindAllStringSubmatch(ch.Text, -1) {
			if index[m[1]] && index[m[2]] && m[1] != m[2] {
				uf.union(m[1], m[2])
			}
		}

		for _, d := range textproc.ExtractDialogues(ch.Text) {
			if !index[d.Speaker] {
				continue
			}
			for _, m := range selfIntroRe.FindAllStringSubmatch(d.Content, -1) {
				if index[m[1]] && m[1] != d.Speaker {
					uf.union(d.Speaker, m[1])
				}
			}
		}
	}

	for key, count := range cooc {
		if count >= e.cfg.AliasCooccurrence {
			pair := strings.SplitN(key, "\x00", 2)
			uf.union(pair[0], pair[1])
		}
	}

	return uf.classes()
}

func isSuffixPair(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == len(rb) {
		return false
	}
	short, long := ra, rb
	if len(ra) > len(rb) {
		short, long = rb, ra
	}
	return string(long[len(long)-len(short):]) == string(short)
}

// canonicalName picks the longest member; ties break lexicographically.
func canonicalName(class []string) string {
	best := class[0]
	for _, n := range class[1:] {
		ln, lb := len([]rune(n)), len([]rune(best))
		if ln > lb || (ln == lb && n < best) {
			best = n
		}
	}
	return best
}

func placeType(proc *textproc.Processor, name string) model.LocationType {
	if dt, ok := proc.Tokenizer().(*textproc.DictTokenizer); ok {
		return model.LocationType(dt.PlaceType(name))
	}
	return model.LocationOther
}

func isHan(r rune) bool { return unicode.Is(unicode.Han, r) }

// unionFind over name strings with deterministic class output.
type unionFind struct {
	parent map[string]string
}

func newUnionFind(items []string) *unionFind {
	uf := &unionFind{parent: make(map[string]string, len(items))}
	for _, it := range items {
		uf.parent[it] = it
	}
	return uf
}

func (u *unionFind) find(x string) string {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union attaches the lexicographically larger root under the smaller, so the
// forest shape is independent of call order.
func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

func (u *unionFind) classes() [][]string {
	byRoot := make(map[string][]string)
	for item := range u.parent {
		root := u.find(item)
		byRoot[root] = append(byRoot[root], item)
	}
	roots := make([]string, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Strings(roots)

	classes := make([][]string, 0, len(roots))
	for _, r := range roots {
		members := byRoot[r]
		sort.Strings(members)
		classes = append(classes, members)
	}
	return classes
}
