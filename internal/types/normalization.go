package types

import "time"

// Strategy names the algorithm that produced a normalization or match
type Strategy string

const (
	StrategyExact    Strategy = "exact"
	StrategyFuzzy    Strategy = "fuzzy"
	StrategySemantic Strategy = "semantic"
	StrategyPattern  Strategy = "pattern"
	StrategyHybrid   Strategy = "hybrid"
)

// NormalizedSkill is the outcome of resolving one raw skill string
type NormalizedSkill struct {
	Original     string         `json:"original"`
	Canonical    string         `json:"canonical"`
	Category     string         `json:"category"`
	Confidence   float64        `json:"confidence"`
	Aliases      []string       `json:"aliases"`
	Strategy     Strategy       `json:"strategy"`
	Source       string         `json:"source,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	NormalizedAt time.Time      `json:"normalized_at"`
}

// NormalizeResult aggregates a batch normalization
type NormalizeResult struct {
	NormalizedSkills []NormalizedSkill `json:"normalized_skills"`
	Unmatched        []string          `json:"unmatched"`
	ConfidenceScore  float64           `json:"confidence_score"`
}

// AliasMapping is a learned source -> canonical pair
type AliasMapping struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	LearnedAt time.Time `json:"learned_at"`
}
