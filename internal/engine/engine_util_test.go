package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lolnotes/internal/game"
)

func TestResolvedJSON(t *testing.T) {
	live, err := json.Marshal(liveResolved(player(9)))
	require.NoError(t, err)
	assert.NotContains(t, string(live), "recordTime")
	assert.Contains(t, string(live), `"kind":"player"`)

	hist, err := json.Marshal(historicalResolved(record("r9", t1), game.PlayerStats{UserID: 9}))
	require.NoError(t, err)
	assert.Contains(t, string(hist), `"recordTime":"2011-09-01T12:00:00Z"`)
	assert.Contains(t, string(hist), `"recordId":"r9"`)
}
