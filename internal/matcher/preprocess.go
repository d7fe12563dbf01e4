package matcher

import (
	"regexp"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	shorthands  = []struct {
		pattern *regexp.Regexp
		short   string
	}{
		{regexp.MustCompile(`\bjavascript\b`), "js"},
		{regexp.MustCompile(`\btypescript\b`), "ts"},
		{regexp.MustCompile(`\bpython\b`), "py"},
	}
)

// Preprocess lowercases a skill, collapses whitespace, strips punctuation and
// shortens a few language names so "JavaScript" and "js" compare equal.
func Preprocess(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	s = whitespace.ReplaceAllString(s, " ")
	s = punctuation.ReplaceAllString(s, "")
	for _, sh := range shorthands {
		s = sh.pattern.ReplaceAllString(s, sh.short)
	}
	return strings.TrimSpace(s)
}

// item is one input skill: its original spelling, the comparable text and
// its position in the caller's list
type item struct {
	orig string
	text string
	idx  int
}

func prepare(skills []string) []item {
	out := make([]item, len(skills))
	for i, s := range skills {
		out[i] = item{orig: s, text: Preprocess(s), idx: i}
	}
	return out
}
