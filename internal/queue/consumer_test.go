package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ev := AllocationCompletedEvent{
		RunID:       "0b6c",
		Strategy:    "first-year",
		Rooms:       []RoomSummary{{RoomNo: "R1", Seated: 4}, {RoomNo: "R2", Seated: 1}},
		Seated:      5,
		DurationMS:  12,
		CompletedAt: "2026-10-17T09:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body, dir))
	require.NoError(t, handleMessage(body, dir))

	got, err := os.ReadFile(filepath.Join(dir, "allocation.log"))
	require.NoError(t, err)
	line := "[2026-10-17T09:00:00Z] Allocation completed | run_id=0b6c | strategy=first-year | seated=5 | duration=12ms | rooms=[R1=4,R2=1]\n"
	assert.Equal(t, line+line, string(got))
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, handleMessage([]byte("{not json"), dir))
	assert.Error(t, handleMessage([]byte(`{"strategy":"regular"}`), dir))

	_, err := os.Stat(filepath.Join(dir, "allocation.log"))
	assert.True(t, os.IsNotExist(err))
}
