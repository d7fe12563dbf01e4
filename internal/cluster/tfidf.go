package cluster

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const maxFeatures = 1000

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

var stopWords = toSet(strings.Fields(`
a about above across after afterwards again against all almost alone along
already also although always am among amongst an and another any anyhow anyone
anything anyway anywhere are around as at be became because become becomes
becoming been before beforehand behind being below beside besides between
beyond both but by can cannot could do done down due during each eg either
else elsewhere enough etc even ever every everyone everything everywhere
except few for former formerly from further get give go had has have he hence
her here hereafter hereby herein him his how however ie if in indeed into is
it its itself just keep last latter least less ltd made many may me meanwhile
might more moreover most mostly much must my myself namely neither never
nevertheless next no nobody none noone nor not nothing now nowhere of off
often on once one only onto or other others otherwise our ours ourselves out
over own per perhaps please put rather re same see seem seemed seeming seems
several she should since so some somehow someone something sometime sometimes
somewhere still such than that the their them themselves then thence there
thereafter thereby therefore therein thereupon these they this those though
through throughout thru thus to together too toward towards under until up
upon us very via was we well were what whatever when whence whenever where
whereafter whereas whereby wherein whereupon wherever whether which while
whither who whoever whole whom whose why will with within without would yet
you your yours yourself yourselves`))

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// terms returns the unigrams and bigrams of s after stop word removal
func terms(s string) []string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	out := append([]string{}, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

// tfidf builds one L2-normalized sparse vector per document using raw term
// counts and smoothed idf, ln((1+n)/(1+df)) + 1
func tfidf(docs []string) []map[string]float64 {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]float64)
		for _, t := range terms(doc) {
			if counts[i][t] == 0 {
				df[t]++
			}
			counts[i][t]++
			total[t]++
		}
	}

	vocab := make(map[string]bool, len(total))
	if len(total) > maxFeatures {
		ranked := make([]string, 0, len(total))
		for t := range total {
			ranked = append(ranked, t)
		}
		sort.Slice(ranked, func(a, b int) bool {
			if total[ranked[a]] != total[ranked[b]] {
				return total[ranked[a]] > total[ranked[b]]
			}
			return ranked[a] < ranked[b]
		})
		ranked = ranked[:maxFeatures]
		for _, t := range ranked {
			vocab[t] = true
		}
	} else {
		for t := range total {
			vocab[t] = true
		}
	}

	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, c := range counts {
		vec := make(map[string]float64, len(c))
		var norm float64
		for t, tf := range c {
			if !vocab[t] {
				continue
			}
			w := tf * (math.Log((1+n)/(1+float64(df[t]))) + 1)
			vec[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range vec {
				vec[t] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// sparseDot is the cosine similarity of two L2-normalized sparse vectors
func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}
