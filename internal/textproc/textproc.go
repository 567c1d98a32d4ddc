package textproc

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyText marks text-processing calls on empty input.
var ErrEmptyText = errors.New("empty text")

var (
	sentenceRe = regexp.MustCompile(`[。！？!?\n]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
	noiseRe    = regexp.MustCompile(`[^\p{Han}a-zA-Z0-9，。！？；：、""''「」《》（）!?,.\s]`)
)

// Processor bundles a tokenizer with the stop-word list. All methods are
// pure; the processor keeps no state between calls.
type Processor struct {
	tok  Tokenizer
	stop map[string]bool
}

func NewProcessor(tok Tokenizer, stopWords map[string]bool) *Processor {
	return &Processor{tok: tok, stop: stopWords}
}

// Tokenizer returns the wrapped tokenizer.
func (p *Processor) Tokenizer() Tokenizer { return p.tok }

// Segment splits text into words, optionally dropping stop words.
func (p *Processor) Segment(text string, removeStopWords bool) []string {
	var words []string
	for _, tok := range p.tok.Tokenize(text) {
		w := strings.TrimSpace(tok.Text)
		if w == "" {
			continue
		}
		if removeStopWords && p.stop[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Names returns person-name tokens in order of appearance.
func (p *Processor) Names(text string) []string {
	var names []string
	for _, tok := range p.tok.Tokenize(text) {
		if tok.POS == "nr" {
			names = append(names, tok.Text)
		}
	}
	return names
}

// Places returns place-name tokens in order of appearance.
func (p *Processor) Places(text string) []string {
	var places []string
	for _, tok := range p.tok.Tokenize(text) {
		if tok.POS == "ns" {
			places = append(places, tok.Text)
		}
	}
	return places
}

// Sentences splits text on Chinese and ASCII sentence terminators and
// newlines. Empty input is an error; the pipeline treats it as InvalidInput.
func (p *Processor) Sentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	var sentences []string
	for _, s := range sentenceRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences, nil
}

// CleanText collapses whitespace and strips characters outside the Chinese,
// alphanumeric and common punctuation ranges.
func (p *Processor) CleanText(text string) string {
	text = noiseRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Windows returns every size-length sliding window over sentences with
// stride 1. Shorter inputs yield a single truncated window.
func Windows(sentences []string, size int) [][]string {
	if size <= 0 || len(sentences) == 0 {
		return nil
	}
	if len(sentences) <= size {
		return [][]string{sentences}
	}
	windows := make([][]string, 0, len(sentences)-size+1)
	for i := 0; i+size <= len(sentences); i++ {
		windows = append(windows, sentences[i:i+size])
	}
	return windows
}
