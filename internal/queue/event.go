// Package queue defines message payloads exchanged over the message broker.
package queue

// AllocationCompletedQueue is the durable queue carrying
// AllocationCompletedEvent messages.
const AllocationCompletedQueue = "allocation.completed"

// AllocationCompletedEvent is published after an allocation run that
// seated at least one student. It carries per-room totals so consumers
// can log or notify without querying the primary database.
type AllocationCompletedEvent struct {
	RunID       string        `json:"run_id"`
	Strategy    string        `json:"strategy"`
	Rooms       []RoomSummary `json:"rooms"`
	Seated      int           `json:"seated"`
	DurationMS  int64         `json:"duration_ms"`
	StartedAt   string        `json:"started_at"`
	CompletedAt string        `json:"completed_at"`
}

// RoomSummary is the number of students one room received in a run.
type RoomSummary struct {
	RoomNo string `json:"room_no"`
	Seated int    `json:"seated"`
}
