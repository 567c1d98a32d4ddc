// Package character scores characters on the relation graph and splits them
// into main and supporting cast.
package character

import (
	"github.com/inkweave/inkgraph/internal/analysis/community"
	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/model"
)

type Analyzer struct {
	cfg      config.AnalysisConfig
	detector *community.Detector
}

func New(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{cfg: cfg, detector: community.NewDetector()}
}

// Analyze fills importance, degree centrality and classification on the
// characters, and reports communities over the relation graph. Communities
// feed no other score.
func (a *Analyzer) Analyze(characters []model.Character, relations []model.Relation, totalChapters int) ([]model.Character, [][]string) {
	maxMentions := 0
	for _, c := range characters {
		if c.MentionCount > maxMentions {
			maxMentions = c.MentionCount
		}
	}

	degree := make(map[string]float64, len(characters))
	for _, r := range relations {
		degree[r.From] += r.Strength
		degree[r.To] += r.Strength
	}
	maxDegree := 0.0
	for _, d := range degree {
		if d > maxDegree {
			maxDegree = d
		}
	}

	out := make([]model.Character, len(characters))
	for i, c := range characters {
		mentionScore := 0.0
		if maxMentions > 0 {
			mentionScore = float64(c.MentionCount) / float64(maxMentions)
		}
		centrality := 0.0
		if maxDegree > 0 {
			centrality = degree[c.Name] / maxDegree
		}
		presence := 0.0
		if totalChapters > 0 {
			presence = float64(len(c.Chapters)) / float64(totalChapters)
		}

		c.DegreeCentrality = centrality
		c.Importance = 0.5*mentionScore + 0.3*centrality + 0.2*presence
		if c.Importance >= a.cfg.MainThreshold || presence >= a.cfg.MainChapterShare {
			c.Classification = model.ClassMain
		} else {
			c.Classification = model.ClassSupporting
		}
		out[i] = c
	}

	nodes := make([]string, len(out))
	for i, c := range out {
		nodes[i] = c.Name
	}
	edges := make([]community.Edge, len(relations))
	for i, r := range relations {
		edges[i] = community.Edge{Source: r.From, Target: r.To, Weight: r.Strength}
	}

	return out, a.detector.Detect(nodes, edges)
}
