package condition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsBrokenScripts(t *testing.T) {
	_, err := Compile("")
	assert.ErrorIs(t, err, ErrEmptyCondition)

	_, err = Compile("result := (")
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		script string
		input  Input
		want   bool
	}{
		{
			name:   "metadata comparison",
			script: `result := int(metadata.contract_value) < 50000`,
			input:  Input{Metadata: map[string]string{"contract_value": "12000"}},
			want:   true,
		},
		{
			name:   "metadata comparison fails",
			script: `result := int(metadata.contract_value) < 50000`,
			input:  Input{Metadata: map[string]string{"contract_value": "90000"}},
			want:   false,
		},
		{
			name:   "document type",
			script: `result := document_type == "rfi" && project_id != ""`,
			input:  Input{DocumentType: "rfi", ProjectID: "p-1"},
			want:   true,
		},
		{
			name:   "stdlib import",
			script: `text := import("text"); result := text.has_prefix(metadata.revision, "C")`,
			input:  Input{Metadata: map[string]string{"revision": "C02"}},
			want:   true,
		},
		{
			name:   "result never set",
			script: `x := 1`,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := Compile(tt.script)
			require.NoError(t, err)

			got, err := cond.Evaluate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateIsReusable(t *testing.T) {
	cond, err := Compile(`result := metadata.discipline == "structural"`)
	require.NoError(t, err)

	first, err := cond.Evaluate(context.Background(), Input{Metadata: map[string]string{"discipline": "structural"}})
	require.NoError(t, err)
	second, err := cond.Evaluate(context.Background(), Input{Metadata: map[string]string{"discipline": "mechanical"}})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestEvaluateRuntimeError(t *testing.T) {
	cond, err := Compile(`result := 1 / int(metadata.zero)`)
	require.NoError(t, err)

	_, err = cond.Evaluate(context.Background(), Input{Metadata: map[string]string{"zero": "0"}})
	assert.Error(t, err)
}
