package matcher

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/fuzzy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// Fuzzy blend weights
const (
	weightRatio     = 0.4
	weightPartial   = 0.3
	weightTokenSort = 0.2
	weightTokenSet  = 0.1
)

func subScores(a, b string) types.SubScores {
	if a == "" || b == "" {
		return types.SubScores{}
	}
	return types.SubScores{
		Ratio:     fuzzy.Ratio(a, b),
		Partial:   fuzzy.PartialRatio(a, b),
		TokenSort: fuzzy.TokenSortRatio(a, b),
		TokenSet:  fuzzy.TokenSetRatio(a, b),
	}
}

func combined(s types.SubScores) float64 {
	return s.Ratio*weightRatio + s.Partial*weightPartial + s.TokenSort*weightTokenSort + s.TokenSet*weightTokenSet
}

// scoreMatrix fills a rows x cols matrix with at most limit rows in flight
func scoreMatrix[T any](ctx context.Context, rows, cols, limit int, cell func(i, j int) T) ([][]T, error) {
	out := make([][]T, rows)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < rows; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]T, cols)
			for j := range row {
				row[j] = cell(i, j)
			}
			out[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fuzzyMatches is greedy in source order: each source takes the best still
// unused target whose blended score reaches threshold.
func (m *Matcher) fuzzyMatches(ctx context.Context, src, tgt []item, threshold float64) ([]types.SkillMatch, error) {
	if len(src) == 0 || len(tgt) == 0 {
		return nil, nil
	}
	scores, err := scoreMatrix(ctx, len(src), len(tgt), m.cfg.Concurrency, func(i, j int) types.SubScores {
		return subScores(src[i].text, tgt[j].text)
	})
	if err != nil {
		return nil, err
	}

	used := make([]bool, len(tgt))
	var matches []types.SkillMatch
	for i, s := range src {
		best, bestScore := -1, 0.0
		for j := range tgt {
			if used[j] {
				continue
			}
			if c := combined(scores[i][j]); c > bestScore && c >= threshold {
				best, bestScore = j, c
			}
		}
		if best < 0 {
			continue
		}
		used[best] = true
		sub := scores[i][best]
		mt := newMatch(s, tgt[best], min(bestScore, 1.0), types.StrategyFuzzy)
		mt.SubScores = &sub
		matches = append(matches, mt)
	}
	return matches, nil
}

// before orders items by original spelling, then position
func before(a, b item) bool {
	if a.orig != b.orig {
		return a.orig < b.orig
	}
	return a.idx < b.idx
}

type pair struct {
	i, j int
	sim  float64
}

// semanticMatches commits mutual-best pairs round by round until no
// remaining pair is mutually best at or above threshold. Equal similarities
// are broken by original spelling, then position.
func (m *Matcher) semanticMatches(ctx context.Context, src, tgt []item, threshold float64) ([]types.SkillMatch, error) {
	if len(src) == 0 || len(tgt) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(src)+len(tgt))
	for _, s := range src {
		texts = append(texts, s.text)
	}
	for _, t := range tgt {
		texts = append(texts, t.text)
	}
	vectors, err := embedding.EmbedAll(ctx, m.embedder, texts, m.cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	sv, tv := vectors[:len(src)], vectors[len(src):]
	sim, err := scoreMatrix(ctx, len(src), len(tgt), m.cfg.Concurrency, func(i, j int) float64 {
		return embedding.Cosine(sv[i], tv[j])
	})
	if err != nil {
		return nil, err
	}

	srcDone := make([]bool, len(src))
	tgtDone := make([]bool, len(tgt))
	var matches []types.SkillMatch
	for {
		bestT := make([]int, len(src))
		for i := range src {
			bestT[i] = -1
			if srcDone[i] {
				continue
			}
			for j := range tgt {
				if tgtDone[j] {
					continue
				}
				if b := bestT[i]; b < 0 || sim[i][j] > sim[i][b] || (sim[i][j] == sim[i][b] && before(tgt[j], tgt[b])) {
					bestT[i] = j
				}
			}
		}
		bestS := make([]int, len(tgt))
		for j := range tgt {
			bestS[j] = -1
			if tgtDone[j] {
				continue
			}
			for i := range src {
				if srcDone[i] {
					continue
				}
				if b := bestS[j]; b < 0 || sim[i][j] > sim[b][j] || (sim[i][j] == sim[b][j] && before(src[i], src[b])) {
					bestS[j] = i
				}
			}
		}

		var round []pair
		for i, j := range bestT {
			if j >= 0 && bestS[j] == i && sim[i][j] >= threshold {
				round = append(round, pair{i: i, j: j, sim: sim[i][j]})
			}
		}
		if len(round) == 0 {
			break
		}
		sort.SliceStable(round, func(a, b int) bool {
			if round[a].sim != round[b].sim {
				return round[a].sim > round[b].sim
			}
			return before(src[round[a].i], src[round[b].i])
		})
		for _, p := range round {
			srcDone[p.i], tgtDone[p.j] = true, true
			matches = append(matches, newMatch(src[p.i], tgt[p.j], p.sim, types.StrategySemantic))
		}
	}
	return matches, nil
}

// hybridMatches runs exact matching, then fuzzy matching on what's left
func (m *Matcher) hybridMatches(ctx context.Context, src, tgt []item, threshold float64) ([]types.SkillMatch, error) {
	matches := exactMatches(src, tgt)

	usedSrc := make(map[int]bool, len(matches))
	usedTgt := make(map[int]bool, len(matches))
	for _, mt := range matches {
		usedSrc[mt.SourceIndex] = true
		usedTgt[mt.TargetIndex] = true
	}
	var restSrc, restTgt []item
	for _, s := range src {
		if !usedSrc[s.idx] {
			restSrc = append(restSrc, s)
		}
	}
	for _, t := range tgt {
		if !usedTgt[t.idx] {
			restTgt = append(restTgt, t)
		}
	}

	rest, err := m.fuzzyMatches(ctx, restSrc, restTgt, threshold)
	if err != nil {
		return nil, err
	}
	return append(matches, rest...), nil
}
