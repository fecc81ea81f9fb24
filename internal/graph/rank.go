package graph

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// RankOptions configures Personalized PageRank computation.
type RankOptions struct {
	// Damping is the probability of following an edge vs teleporting (default: 0.85)
	Damping float64

	// MaxIterations is the maximum number of power iterations (default: 20)
	MaxIterations int

	// Tolerance for convergence detection (default: 1e-6)
	Tolerance float64

	// TopK is the number of top results to return (default: 20)
	TopK int

	// IncludePaths enables backtracking to explain why nodes were reached
	IncludePaths bool
}

// DefaultRankOptions returns sensible defaults for ranking.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		Damping:       0.85,
		MaxIterations: 20,
		Tolerance:     1e-6,
		TopK:          20,
		IncludePaths:  true,
	}
}

// RankResult is a ranked node.
type RankResult[N comparable] struct {
	Node  N       `json:"node"`
	Score float64 `json:"score"`
	Path  []N     `json:"path,omitempty"` // Path from a seed to this node
}

// RankOutput contains the full ranking result.
type RankOutput[N comparable] struct {
	Results    []RankResult[N] `json:"results"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
	Seeds      []N             `json:"seeds"`
	TotalNodes int             `json:"totalNodes"`
}

// Rank scores the nodes of g by Personalized PageRank seeded at seeds: nodes
// that are reached from the seeds along many short routes score highest.
func Rank[N comparable](ctx context.Context, g DirectedGraph[N], seeds []N, opts RankOptions) (*RankOutput[N], error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seed nodes provided")
	}

	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = 0.85
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-6
	}
	if opts.TopK <= 0 {
		opts.TopK = 20
	}

	nodes := g.Nodes()
	idx := make(map[N]int, len(nodes))
	for i, n := range nodes {
		idx[n] = i
	}
	out := make([][]int, len(nodes))
	for i, n := range nodes {
		for _, m := range g.Out(n) {
			if j, ok := idx[m]; ok {
				out[i] = append(out[i], j)
			}
		}
	}

	seedSet := make(map[int]bool)
	validSeeds := make([]N, 0, len(seeds))
	for _, s := range seeds {
		if i, ok := idx[s]; ok && !seedSet[i] {
			seedSet[i] = true
			validSeeds = append(validSeeds, s)
		}
	}

	output := &RankOutput[N]{
		Results:    []RankResult[N]{},
		Seeds:      validSeeds,
		TotalNodes: len(nodes),
	}
	if len(seedSet) == 0 {
		return output, nil
	}

	teleport := make([]float64, len(nodes))
	for i := range seedSet {
		teleport[i] = 1.0 / float64(len(seedSet))
	}
	scores := make([]float64, len(nodes))
	copy(scores, teleport)
	next := make([]float64, len(nodes))

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		output.Iterations = iter + 1

		for i := range next {
			next[i] = 0
		}
		for i, targets := range out {
			if len(targets) == 0 {
				continue
			}
			contrib := scores[i] / float64(len(targets))
			for _, j := range targets {
				next[j] += contrib
			}
		}

		maxDiff := 0.0
		for i := range next {
			next[i] = opts.Damping*next[i] + (1-opts.Damping)*teleport[i]
			maxDiff = math.Max(maxDiff, math.Abs(next[i]-scores[i]))
		}
		scores, next = next, scores

		if maxDiff < opts.Tolerance {
			output.Converged = true
			break
		}
	}

	ranked := make([]int, 0, len(nodes))
	for i, s := range scores {
		if s > 0 {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})
	if len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}

	for _, i := range ranked {
		r := RankResult[N]{Node: nodes[i], Score: scores[i]}
		if opts.IncludePaths && !seedSet[i] {
			r.Path = backtrackPath(g, nodes[i], seedSet, idx, 5)
		}
		output.Results = append(output.Results, r)
	}
	return output, nil
}

// backtrackPath walks incoming edges from target toward a seed, taking a seed
// predecessor when one is adjacent and the last unvisited one otherwise. The
// route is returned seed-first.
func backtrackPath[N comparable](g DirectedGraph[N], target N, seedSet map[int]bool, idx map[N]int, maxDepth int) []N {
	path := []N{target}
	visited := map[N]bool{target: true}
	current := target

	for depth := 0; depth < maxDepth; depth++ {
		var prev N
		found := false
		for _, p := range g.In(current) {
			if visited[p] {
				continue
			}
			if _, ok := idx[p]; !ok {
				continue
			}
			prev, found = p, true
			if seedSet[idx[p]] {
				break
			}
		}
		if !found {
			break
		}
		path = append(path, prev)
		visited[prev] = true
		if seedSet[idx[prev]] {
			break
		}
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
