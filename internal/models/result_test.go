package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonOutcome_RoundTrip(t *testing.T) {
	t.Run("structured encodes as array", func(t *testing.T) {
		resp := CompareResponse{
			Message: "Files received successfully",
			Result: ComparisonOutcome{
				Structured: true,
				Candidates: []CandidateResult{{FullName: "Bob", Score: 95, Explanation: "x"}},
			},
		}

		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"message":"Files received successfully","result":[{"fullName":"Bob","score":95,"explanation":"x"}]}`, string(data))

		var decoded CompareResponse
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Result.Structured)
		require.Len(t, decoded.Result.Candidates, 1)
		assert.Equal(t, "Bob", decoded.Result.Candidates[0].FullName)
	})

	t.Run("degraded encodes as string", func(t *testing.T) {
		data, err := json.Marshal(ComparisonOutcome{Raw: "free text"})
		require.NoError(t, err)
		assert.Equal(t, `"free text"`, string(data))

		var decoded ComparisonOutcome
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.False(t, decoded.Structured)
		assert.Equal(t, "free text", decoded.Raw)
	})
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.00 KB", FormatFileSize(1024))
	assert.Equal(t, "1.50 MB", FormatFileSize(1572864))
}
