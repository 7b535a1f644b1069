package canonical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeysRecursively(t *testing.T) {
	got, err := Marshal(map[string]any{
		"foo": "a",
		"bar": "b",
		"bazz": map[string]any{
			"z": true,
			"a": int64(1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"bar":"b","bazz":{"a":1,"z":true},"foo":"a"}`, string(got))
}

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, "null"},
		{"bool", false, "false"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"mixed array", []any{"a", 1, nil}, `["a",1,null]`},
		{"no html escape", "<b>&</b>", `"<b>&</b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to "é".
	decomposed, err := Marshal("e\u0301")
	require.NoError(t, err)
	composed, err := Marshal("\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshal_UTF16KeyOrdering(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00, which sorts before
	// U+FFFD in UTF-16 even though it sorts after it in UTF-8.
	got, err := Marshal(map[string]any{"\uFFFD": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFFFD\":1}", string(got))
}

func TestMarshal_Rejects(t *testing.T) {
	_, err := Marshal(math.Inf(1))
	require.Error(t, err)

	_, err = Marshal(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")

	_, err = Marshal(map[string]any{"k": []any{struct{}{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value for key "k"`)
}
