// Package community groups characters by label propagation over the
// relation graph.
package community

import "sort"

// Edge is an undirected weighted link between two character names.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Detector runs weighted label propagation. Iteration order and tie-breaks
// are deterministic so repeated runs agree.
type Detector struct {
	MaxIterations int
}

func NewDetector() *Detector {
	return &Detector{MaxIterations: 20}
}

// Detect returns communities of size >= 2; singletons are dropped. Each
// community and the community list are sorted.
func (d *Detector) Detect(nodes []string, edges []Edge) [][]string {
	if len(nodes) == 0 {
		return nil
	}

	adj := make(map[string]map[string]float64, len(nodes))
	for _, n := range nodes {
		adj[n] = make(map[string]float64)
	}
	for _, e := range edges {
		if _, ok := adj[e.Source]; !ok {
			continue
		}
		if _, ok := adj[e.Target]; !ok {
			continue
		}
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		adj[e.Source][e.Target] += w
		adj[e.Target][e.Source] += w
	}

	labels := make(map[string]string, len(nodes))
	ordered := append([]string(nil), nodes...)
	sort.Strings(ordered)
	for _, n := range ordered {
		labels[n] = n
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0
		for _, u := range ordered {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelWeight := make(map[string]float64)
			maxWeight := 0.0
			for v, w := range neighbors {
				labelWeight[labels[v]] += w
				if labelWeight[labels[v]] > maxWeight {
					maxWeight = labelWeight[labels[v]]
				}
			}

			var candidates []string
			for label, w := range labelWeight {
				if w == maxWeight {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	clusters := make(map[string][]string)
	for _, n := range ordered {
		clusters[labels[n]] = append(clusters[labels[n]], n)
	}

	var communities [][]string
	roots := make([]string, 0, len(clusters))
	for r := range clusters {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	for _, r := range roots {
		members := clusters[r]
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		communities = append(communities, members)
	}
	sort.Slice(communities, func(i, j int) bool { return communities[i][0] < communities[j][0] })
	return communities
}
