package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomx/atomx-cli/internal/output"
)

func TestApplyJQ(t *testing.T) {
	payload := json.RawMessage(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`)

	// Single result comes back bare.
	got, err := applyJQ(".[0].name", payload)
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	// Multiple results come back as an array.
	got, err = applyJQ(".[].id", payload)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(gotJSON))
}

func TestApplyJQParseError(t *testing.T) {
	_, err := applyJQ(".[", json.RawMessage(`{}`))
	require.Error(t, err)

	e := output.AsError(err)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Equal(t, "Invalid jq expression", e.Message)
}

func TestApplyJQEvalError(t *testing.T) {
	_, err := applyJQ(".foo.bar", json.RawMessage(`[1,2]`))
	require.Error(t, err)
	assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
}

func TestPayloadSummary(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"array", `[{"id":1},{"id":2},{"id":3}]`, "3 items"},
		{"single element array", `[{"id":1}]`, "1 item"},
		{"empty array", `[]`, "0 items"},
		{"object with name", `{"id":5,"name":"Example Publisher"}`, "Example Publisher"},
		{"object with title", `{"id":5,"title":"Quarterly Report"}`, "Quarterly Report"},
		{"anonymous object", `{"id":5}`, "1 item"},
		{"scalar", `42`, "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payloadSummary(json.RawMessage(tt.payload)))
		})
	}
}
