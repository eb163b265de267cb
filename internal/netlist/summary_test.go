package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want Summary
		text string
	}{
		{
			name: "c17",
			src:  c17,
			want: Summary{Inputs: 5, Outputs: 2, Gates: 6, Variables: 5, Propositions: 11},
			text: "5 inputs, 2 outputs, 6 gates",
		},
		{
			name: "undriven output becomes a variable",
			src:  "INPUT(a)\nOUTPUT(y)\nOUTPUT(z)\ny = NOT(a)\n",
			want: Summary{Inputs: 1, Outputs: 2, Gates: 1, Variables: 2, Propositions: 3, Free: []string{"z"}},
			text: "1 inputs, 2 outputs, 1 gates, 1 free",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := ParseString(tt.src, "t", NewStore(), ParseOptions{})
			require.NoError(t, err)

			s := Summarize(c)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.text, s.String())
		})
	}
}

func TestSummarizeSharedStore(t *testing.T) {
	t.Parallel()
	store := NewStore()
	_, err := ParseString("INPUT(a)\nOUTPUT(y)\ny = NOT(a)\n", "ref", store, ParseOptions{})
	require.NoError(t, err)
	b, err := ParseString("INPUT(a)\nINPUT(b)\nOUTPUT(y)\ny = AND(a, b)\n", "opt", store, ParseOptions{})
	require.NoError(t, err)

	s := Summarize(b)
	assert.Equal(t, 2, s.Inputs)
	assert.Equal(t, 1, s.Gates)
	assert.Equal(t, 2, s.Variables)
	assert.Equal(t, 4, s.Propositions, "both scopes count towards the store")
}
