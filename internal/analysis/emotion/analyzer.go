// Package emotion scores chapter sentiment, decomposes it into six emotion
// categories, and detects the peaks and troughs of the emotional curve.
package emotion

import (
	"math"
	"sort"
	"strings"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
)

// baselineWindow is the half-width of the moving-average baseline.
const baselineWindow = 1

var categories = []string{"joy", "sadness", "anger", "fear", "surprise", "disgust"}

type Analyzer struct {
	cfg config.AnalysisConfig
	lex *lexicon.Set
}

func New(cfg config.AnalysisConfig, lex *lexicon.Set) *Analyzer {
	return &Analyzer{cfg: cfg, lex: lex}
}

type Result struct {
	ChapterEmotions   []model.ChapterEmotion
	CharacterEmotions []model.CharacterEmotion
	Curve             []model.EmotionPoint
	Peaks             []model.EmotionalPeak
}

func (a *Analyzer) Analyze(novel *model.Novel, characters []model.Character) *Result {
	res := &Result{}

	for _, ch := range novel.Chapters {
		sentiment, dist := a.chapterEmotion(ch.Sentences)
		res.ChapterEmotions = append(res.ChapterEmotions, model.ChapterEmotion{
			Chapter:      ch.Index,
			Sentiment:    sentiment,
			Distribution: dist,
		})
		res.Curve = append(res.Curve, model.EmotionPoint{Chapter: ch.Index, Sentiment: sentiment})
	}

	res.CharacterEmotions = a.directedEmotions(novel, characters)
	res.Peaks = a.detectPeaks(res.Curve)
	return res
}

// SentenceSentiment scores one sentence in [-1,1] from the polarity lexicons.
func (a *Analyzer) SentenceSentiment(sentence string) float64 {
	pos := countHits(sentence, a.lex.Positive)
	neg := countHits(sentence, a.lex.Negative)
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// chapterEmotion is the clipped mean of sentence sentiments plus the
// L1-normalized six-way category distribution. Sentences without any
// category hit contribute uniform mass, so the sum is always 1.
func (a *Analyzer) chapterEmotion(sentences []string) (float64, model.EmotionDistribution) {
	if len(sentences) == 0 {
		return 0, uniform()
	}

	total := 0.0
	mass := make(map[string]float64, len(categories))
	for _, s := range sentences {
		total += a.SentenceSentiment(s)

		hits := a.categoryHits(s)
		sum := 0
		for _, n := range hits {
			sum += n
		}
		if sum == 0 {
			for _, c := range categories {
				mass[c] += 1.0 / float64(len(categories))
			}
			continue
		}
		for c, n := range hits {
			mass[c] += float64(n) / float64(sum)
		}
	}

	sentiment := clip(total/float64(len(sentences)), -1, 1)

	grand := 0.0
	for _, c := range categories {
		grand += mass[c]
	}
	if grand == 0 {
		return sentiment, uniform()
	}
	return sentiment, model.EmotionDistribution{
		Joy:      mass["joy"] / grand,
		Sadness:  mass["sadness"] / grand,
		Anger:    mass["anger"] / grand,
		Fear:     mass["fear"] / grand,
		Surprise: mass["surprise"] / grand,
		Disgust:  mass["disgust"] / grand,
	}
}

func (a *Analyzer) categoryHits(sentence string) map[string]int {
	hits := make(map[string]int, len(categories))
	for _, c := range categories {
		for _, kw := range a.lex.Emotions[c] {
			hits[c] += strings.Count(sentence, kw)
		}
	}
	return hits
}

// directedEmotions collects, per chapter and ordered character pair, the
// sentences naming both; intensity is the absolute mean sentiment scaled by
// the co-occurrence count.
func (a *Analyzer) directedEmotions(novel *model.Novel, characters []model.Character) []model.CharacterEmotion {
	var out []model.CharacterEmotion

	names := make([]string, len(characters))
	aliases := make(map[string][]string, len(characters))
	for i, c := range characters {
		names[i] = c.Name
		aliases[c.Name] = c.Aliases
	}
	sort.Strings(names)

	for _, ch := range novel.Chapters {
		type shared struct {
			total float64
			count int
			hits  map[string]int
		}
		pairs := make(map[[2]string]*shared)

		for _, sentence := range ch.Sentences {
			var present []string
			for _, n := range names {
				for _, alias := range aliases[n] {
					if strings.Contains(sentence, alias) {
						present = append(present, n)
						break
					}
				}
			}
			if len(present) < 2 {
				continue
			}
			sentiment := a.SentenceSentiment(sentence)
			hits := a.categoryHits(sentence)
			for i := 0; i < len(present); i++ {
				for j := 0; j < len(present); j++ {
					if i == j {
						continue
					}
					k := [2]string{present[i], present[j]}
					s := pairs[k]
					if s == nil {
						s = &shared{hits: make(map[string]int)}
						pairs[k] = s
					}
					s.total += sentiment
					s.count++
					for c, n := range hits {
						s.hits[c] += n
					}
				}
			}
		}

		keys := make([][2]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i][0] != keys[j][0] {
				return keys[i][0] < keys[j][0]
			}
			return keys[i][1] < keys[j][1]
		})

		for _, k := range keys {
			s := pairs[k]
			dominant, best := "", 0
			for _, c := range categories {
				if s.hits[c] > best {
					dominant, best = c, s.hits[c]
				}
			}
			avg := s.total / float64(s.count)
			if dominant == "" && avg == 0 {
				continue
			}
			if dominant == "" {
				dominant = "neutral"
			}
			intensity := clip(math.Abs(avg)*(0.5+0.25*float64(s.count)), 0, 1)
			out = append(out, model.CharacterEmotion{
				Source:    k[0],
				Target:    k[1],
				Chapter:   ch.Index,
				Emotion:   dominant,
				Intensity: intensity,
			})
		}
	}

	return out
}

// detectPeaks flags local extrema whose deviation from the moving-average
// baseline exceeds one standard deviation of the whole curve. The strict
// comparison against the previous point picks the earliest chapter of a
// plateau.
func (a *Analyzer) detectPeaks(curve []model.EmotionPoint) []model.EmotionalPeak {
	n := len(curve)
	if n < 3 {
		return nil
	}

	mean := 0.0
	for _, p := range curve {
		mean += p.Sentiment
	}
	mean /= float64(n)
	variance := 0.0
	for _, p := range curve {
		d := p.Sentiment - mean
		variance += d * d
	}
	sigma := math.Sqrt(variance/float64(n)) * a.cfg.PeakSigma
	if sigma == 0 {
		return nil
	}

	// Moving average over the surrounding window, excluding the point
	// itself so a plateau cannot inflate its own baseline.
	baseline := func(i int) float64 {
		lo, hi := i-baselineWindow, i+baselineWindow
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		sum, count := 0.0, 0
		for k := lo; k <= hi; k++ {
			if k == i {
				continue
			}
			sum += curve[k].Sentiment
			count++
		}
		return sum / float64(count)
	}

	var peaks []model.EmotionalPeak
	for i := 1; i < n-1; i++ {
		v := curve[i].Sentiment
		prev, next := curve[i-1].Sentiment, curve[i+1].Sentiment
		dev := v - baseline(i)
		switch {
		case v > prev && v >= next && dev > sigma:
			peaks = append(peaks, model.EmotionalPeak{Chapter: curve[i].Chapter, Sentiment: v, Kind: model.PeakHigh})
		case v < prev && v <= next && -dev > sigma:
			peaks = append(peaks, model.EmotionalPeak{Chapter: curve[i].Chapter, Sentiment: v, Kind: model.PeakLow})
		}
	}
	return peaks
}

func uniform() model.EmotionDistribution {
	u := 1.0 / 6.0
	return model.EmotionDistribution{Joy: u, Sadness: u, Anger: u, Fear: u, Surprise: u, Disgust: u}
}

func countHits(s string, words map[string]bool) int {
	n := 0
	for w := range words {
		n += strings.Count(s, w)
	}
	return n
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
