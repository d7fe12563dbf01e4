package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	qualifierPrefix = regexp.MustCompile(`(?i)^(basic|advanced|senior|junior|expert|proficient in)\s+`)
	roleSuffix      = regexp.MustCompile(`(?i)\s+(expert|specialist|developer|engineer|analyst|manager)$`)
	ampersand       = regexp.MustCompile(`\s*&\s*`)
	slash           = regexp.MustCompile(`\s*/\s*`)
)

// Preprocess trims and title-cases a raw skill, strips a leading qualifier
// and a trailing role word, and spells out '&' and '/'.
func Preprocess(skill string) string {
	skill = strings.Join(strings.Fields(skill), " ")
	if skill == "" {
		return ""
	}

	// a Caser holds state and isn't safe for concurrent use
	skill = cases.Title(language.English).String(skill)
	skill = qualifierPrefix.ReplaceAllString(skill, "")
	skill = roleSuffix.ReplaceAllString(skill, "")
	skill = ampersand.ReplaceAllString(skill, " and ")
	skill = slash.ReplaceAllString(skill, " or ")
	return strings.TrimSpace(skill)
}

// rewriteRule maps an abbreviation or spelling variant to its canonical form
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rule matches word as a whole token that isn't part of a dotted name,
// so "js" rewrites in "js" and "vanilla js" but not in "node.js".
func rule(word, replacement string) rewriteRule {
	return rewriteRule{
		pattern:     regexp.MustCompile(`(?i)(^|[^.\w])(?:` + word + `)\b`),
		replacement: "${1}" + replacement,
	}
}

// rewriteRules run in order; compound names come before bare abbreviations
var rewriteRules = []rewriteRule{
	rule(`react\.?js`, "React"),
	rule(`angularjs`, "Angular"),
	rule(`vuejs`, "Vue.js"),
	rule(`node\.?js`, "Node.js"),
	rule(`next\.?js`, "Next.js"),
	rule(`js`, "JavaScript"),
	rule(`ts`, "TypeScript"),
	rule(`py`, "Python"),
	rule(`rb`, "Ruby"),
	rule(`golang`, "Go"),
	rule(`k8s`, "Kubernetes"),
	rule(`dotnet`, ".NET"),
	rule(`dj`, "Django"),
	rule(`fl`, "Flask"),
	rule(`fb`, "FastAPI"),
	rule(`rq`, "Redis"),
	rule(`pg|postgres`, "PostgreSQL"),
	rule(`my`, "MySQL"),
	rule(`mongo`, "MongoDB"),
	rule(`aws`, "Amazon Web Services"),
	rule(`gcp`, "Google Cloud Platform"),
	rule(`az`, "Microsoft Azure"),
}

// Rewrite applies every rewrite rule in order
func Rewrite(skill string) string {
	out := skill
	for _, r := range rewriteRules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}
	return out
}
