package handler // handler defines http handlers

import (
	"context"

	"github.com/iliyamo/exam-seat-allocation/internal/allocation"
	"github.com/iliyamo/exam-seat-allocation/internal/model"
	"github.com/iliyamo/exam-seat-allocation/internal/queue"
)

// StudentStore is what the handlers need from the student repository.
// repository.StudentRepo and repository.MemoryStudentStore satisfy it.
type StudentStore interface {
	ListAllocated(ctx context.Context) ([]model.Student, error)
	ListByRoom(ctx context.Context, roomNo string) ([]model.Student, error)
	GetByID(ctx context.Context, studentID string) (*model.Student, error)
	ReplaceAll(ctx context.Context, students []model.Student) error
}

// RoomStore is what the handlers need from the room repository.
type RoomStore interface {
	GetByRoomNo(ctx context.Context, roomNo string) (*model.Room, error)
	ReplaceAll(ctx context.Context, rooms []model.Room) error
}

// Runner executes one allocation pass. *allocation.Allocator satisfies it.
type Runner interface {
	Run(ctx context.Context, strategy allocation.Strategy) (*allocation.Result, error)
}

// EventPublisher sends allocation events to the broker.
type EventPublisher interface {
	PublishAllocationCompleted(ctx context.Context, event queue.AllocationCompletedEvent) error
}
