// Package observability renders human-readable summaries for the CLI's
// --pretty mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/skill-taxonomy/internal/logging"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Printer handles formatted output for pretty mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = truncate(line, boxWidth-4)
	}
	body := titleStyle.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(p.out, boxStyle.Render(body))
}

func truncate(s string, limit int) string {
	if lipgloss.Width(s) <= limit {
		return s
	}
	return logging.Truncate(s, limit-3)
}

func label(s string) string {
	return labelStyle.Render(s)
}

// more reports how many list entries were cut
func more(sb *strings.Builder, total, shown int, noun string) {
	if total > shown {
		fmt.Fprintf(sb, "... and %d more %s\n", total-shown, noun)
	}
}

// PrintNormalizeResult outputs resolved skills and anything left unmatched.
func (p *Printer) PrintNormalizeResult(result *types.NormalizeResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d resolved, %d unmatched\n", label("Skills:"), len(result.NormalizedSkills), len(result.Unmatched))
	fmt.Fprintf(&sb, "%s %.2f\n\n", label("Confidence:"), result.ConfidenceScore)

	for _, s := range result.NormalizedSkills {
		fmt.Fprintf(&sb, "• %s → %s (%s, %.2f)\n", s.Original, s.Canonical, s.Strategy, s.Confidence)
	}
	if len(result.Unmatched) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("Unmatched: " + strings.Join(result.Unmatched, ", ")))
	}

	p.printBox("NORMALIZED SKILLS", sb.String())
}

// PrintMatchResult outputs matched pairs and the leftovers on either side.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d (avg confidence %.2f)\n\n", label("Matches:"), len(result.Matches), result.AverageConfidence)
	for _, m := range result.Matches {
		fmt.Fprintf(&sb, "• %s ↔ %s  %.2f [%s]\n", m.Source, m.Target, m.Confidence, m.Strategy)
	}
	if len(result.UnmatchedSource) > 0 {
		fmt.Fprintf(&sb, "\n%s %s\n", label("Unmatched source:"), strings.Join(result.UnmatchedSource, ", "))
	}
	if len(result.UnmatchedTarget) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", label("Unmatched target:"), strings.Join(result.UnmatchedTarget, ", "))
	}

	p.printBox("SKILL MATCHES", sb.String())
}

// PrintOverlap outputs overlap metrics between two skill lists.
func (p *Printer) PrintOverlap(overlap *types.SkillOverlap) {
	if overlap == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d of %d / %d\n", label("Matched:"), overlap.MatchedCount, overlap.TotalSource, overlap.TotalTarget)
	fmt.Fprintf(&sb, "%s %.2f\n", label("Overlap:"), overlap.OverlapScore)
	fmt.Fprintf(&sb, "%s %.2f\n", label("Precision:"), overlap.Precision)
	fmt.Fprintf(&sb, "%s %.2f\n", label("Recall:"), overlap.Recall)
	fmt.Fprintf(&sb, "%s %.2f\n", label("F1:"), overlap.F1Score)

	p.printBox("SKILL OVERLAP", sb.String())
}

// PrintBestMatches outputs ranked candidates for a single skill.
func (p *Printer) PrintBestMatches(skill string, candidates []types.RankedCandidate) {
	var sb strings.Builder
	if len(candidates) == 0 {
		sb.WriteString(warnStyle.Render("No candidates above threshold"))
	}
	for i, c := range candidates {
		fmt.Fprintf(&sb, "#%d  %s  %.2f (%s)\n", i+1, c.Skill, c.Confidence, c.MatchType)
	}

	p.printBox("BEST MATCHES FOR "+strings.ToUpper(skill), sb.String())
}

// PrintClusters outputs the clusters, largest first, with an optional analysis.
func (p *Printer) PrintClusters(clusters []types.Cluster, analysis *types.ClusterAnalysis) {
	var sb strings.Builder
	if analysis != nil {
		fmt.Fprintf(&sb, "%s %d clusters over %d skills\n", label("Total:"), analysis.TotalClusters, analysis.TotalSkills)
		fmt.Fprintf(&sb, "%s %.2f  %s %.2f\n\n", label("Coverage:"), analysis.Coverage, label("Quality:"), analysis.QualityScore)
	}
	if len(clusters) == 0 {
		sb.WriteString(warnStyle.Render("No clusters formed"))
	}

	for i, cl := range clusters {
		name := cl.SuggestedName
		if name == "" {
			name = cl.Representative
		}
		fmt.Fprintf(&sb, "%s (%d)\n", name, cl.Size)
		shown := min(len(cl.Skills), maxItemsToShow)
		fmt.Fprintf(&sb, "  %s\n", strings.Join(cl.Skills[:shown], ", "))
		if len(cl.Skills) > shown {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(cl.Skills)-shown)
		}
		if i < len(clusters)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKILL CLUSTERS", sb.String())
}

// PrintStats outputs taxonomy-wide counters.
func (p *Printer) PrintStats(stats *types.TaxonomyStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d\n", label("Skills:"), stats.TotalSkills)
	fmt.Fprintf(&sb, "%s %d\n", label("Alias rules:"), stats.NormalizationRules)
	fmt.Fprintf(&sb, "%s %.2f\n", label("Coverage:"), stats.CoverageScore)
	if !stats.LastUpdated.IsZero() {
		fmt.Fprintf(&sb, "%s %s\n", label("Updated:"), stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}

	p.printBox("TAXONOMY STATS", sb.String())
}

// PrintCategories outputs every category with its skill count.
func (p *Printer) PrintCategories(categories []types.CategoryInfo) {
	var sb strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&sb, "• %-24s %3d  %s\n", c.Key, c.SkillCount, c.Name)
	}
	if len(categories) == 0 {
		sb.WriteString(warnStyle.Render("No categories"))
	}

	p.printBox("CATEGORIES", sb.String())
}

// PrintSkills outputs canonical skills with their aliases.
func (p *Printer) PrintSkills(skills []types.CanonicalSkill) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d\n\n", label("Skills:"), len(skills))
	for _, s := range skills {
		fmt.Fprintf(&sb, "• %s [%s]", s.Name, s.Category)
		if len(s.Aliases) > 0 {
			fmt.Fprintf(&sb, " aka %s", strings.Join(s.Aliases, ", "))
		}
		sb.WriteString("\n")
	}

	p.printBox("TAXONOMY SKILLS", sb.String())
}

// PrintSearchResults outputs scored search hits, best first.
func (p *Printer) PrintSearchResults(query string, results []types.SearchResult) {
	var sb strings.Builder
	if len(results) == 0 {
		sb.WriteString(warnStyle.Render("No results"))
	}
	shown := min(len(results), maxItemsToShow*2)
	for i := 0; i < shown; i++ {
		r := results[i]
		fmt.Fprintf(&sb, "%.2f  %s [%s]\n", r.Score, r.Skill.Name, r.Skill.Category)
	}
	more(&sb, len(results), shown, "results")

	p.printBox(fmt.Sprintf("SEARCH: %q", query), sb.String())
}
