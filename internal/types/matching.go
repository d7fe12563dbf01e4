package types

// SubScores holds the individual fuzzy ratios behind a blended confidence
type SubScores struct {
	Ratio     float64 `json:"ratio"`
	Partial   float64 `json:"partial"`
	TokenSort float64 `json:"token_sort"`
	TokenSet  float64 `json:"token_set"`
}

// SkillMatch pairs one source skill with one target skill
type SkillMatch struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Confidence float64    `json:"confidence"`
	Strategy   Strategy   `json:"strategy"`
	SubScores  *SubScores `json:"sub_scores,omitempty"`

	SourceIndex int `json:"-"`
	TargetIndex int `json:"-"`
}

// MatchResult aggregates one matching session
type MatchResult struct {
	Matches           []SkillMatch `json:"matches"`
	UnmatchedSource   []string     `json:"unmatched_source"`
	UnmatchedTarget   []string     `json:"unmatched_target"`
	AverageConfidence float64      `json:"average_confidence"`
}

// RankedCandidate is one entry returned by best-match ranking
type RankedCandidate struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
	MatchType  string  `json:"match_type"`
}

// SkillOverlap summarizes how much two skill lists have in common
type SkillOverlap struct {
	OverlapScore float64      `json:"overlap_score"`
	Precision    float64      `json:"precision"`
	Recall       float64      `json:"recall"`
	F1Score      float64      `json:"f1_score"`
	MatchedCount int          `json:"matched_count"`
	TotalSource  int          `json:"total_source"`
	TotalTarget  int          `json:"total_target"`
	Matches      []SkillMatch `json:"matches"`
}
