package matcher

import "fmt"

// UnknownStrategyError is returned when Match is asked for a strategy it doesn't implement
type UnknownStrategyError struct {
	Strategy string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown matching strategy: %q", e.Strategy)
}

// MatchError represents a matching run that was abandoned part way
type MatchError struct {
	Message string
	Cause   error
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("match error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("match error: %s", e.Message)
}

func (e *MatchError) Unwrap() error {
	return e.Cause
}
