package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  senior python developer ", want: "Python"},
		{input: "Proficient in Go", want: "Go"},
		{input: "ADVANCED SQL", want: "Sql"},
		{input: "machine   learning", want: "Machine Learning"},
		{input: "Data Analyst", want: "Data"},
		{input: "Sales & Marketing", want: "Sales and Marketing"},
		{input: "CI / CD", want: "Ci or Cd"},
		{input: "golang", want: "Golang"},
		{input: "", want: ""},
		{input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.input))
		})
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "JS", want: "JavaScript"},
		{input: "vanilla js", want: "vanilla JavaScript"},
		{input: "React.js", want: "React"},
		{input: "ReactJS", want: "React"},
		{input: "Node.js", want: "Node.js"},
		{input: "K8s", want: "Kubernetes"},
		{input: "Postgres", want: "PostgreSQL"},
		{input: "AWS Lambda", want: "Amazon Web Services Lambda"},
		{input: "jsx", want: "jsx"},
		{input: "Kubernetes", want: "Kubernetes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.input))
		})
	}
}
