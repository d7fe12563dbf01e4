package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "python", b: "python", want: 1},
		{name: "empty left", a: "", b: "python", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "one insertion", a: "kubernetes", b: "kubernetess", want: 20.0 / 21.0},
		{name: "case sensitive", a: "Go", b: "go", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{{"react", "reactjs"}, {"postgres", "postgresql"}, {"c++", "c#"}}
	for _, p := range pairs {
		assert.InDelta(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), 1e-12)
	}
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 1.0, PartialRatio("react", "react native"))
	assert.Equal(t, 1.0, PartialRatio("react native", "react"))
	assert.Equal(t, 0.0, PartialRatio("", "react"))
	assert.InDelta(t, Ratio("java", "java"), PartialRatio("java", "java"), 1e-12)
	assert.Less(t, PartialRatio("rust", "python"), 0.5)
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 1.0, TokenSortRatio("Machine Learning", "learning machine"))
	assert.Equal(t, 1.0, TokenSortRatio("node.js", "JS node"))
	assert.Equal(t, 0.0, TokenSortRatio("!!!", "node"))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 1.0, TokenSetRatio("amazon web services", "web services"))
	assert.Equal(t, 1.0, TokenSetRatio("Google Cloud", "cloud google"))
	assert.Equal(t, 0.0, TokenSetRatio("", "cloud"))
	assert.Less(t, TokenSetRatio("docker", "terraform"), 0.5)
}

func TestScoresInUnitRange(t *testing.T) {
	inputs := []string{"", "a", "Go", "golang", "Golang Developer", "C++", "日本語", "k8s"}
	for _, a := range inputs {
		for _, b := range inputs {
			for _, fn := range []func(string, string) float64{Ratio, PartialRatio, TokenSortRatio, TokenSetRatio} {
				s := fn(a, b)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	}
}
