package allocation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// StudentStore is the student side of the persistence collaborator.
type StudentStore interface {
	// ListUnallocated returns students whose room is not set.
	ListUnallocated(ctx context.Context, order model.StudentOrder) ([]model.Student, error)
	// ListAll returns every student.
	ListAll(ctx context.Context, order model.StudentOrder) ([]model.Student, error)
	// SetSeat stores the room and seat of one student.
	SetSeat(ctx context.Context, studentID, roomNo, seatNo string) error
	// ClearSeats resets room and seat for every student.
	ClearSeats(ctx context.Context) error
}

// RoomStore is the room side of the persistence collaborator.
type RoomStore interface {
	// ListRooms returns every room layout, ordered by room_no when sorted
	// is true and in storage order otherwise.
	ListRooms(ctx context.Context, sorted bool) ([]model.Room, error)
}

// Allocator runs allocation passes against a store. Runs on the same
// Allocator are serialized; WithLease extends that across processes.
type Allocator struct {
	students StudentStore
	rooms    RoomStore

	mu        sync.Mutex
	lease     Lease
	rng       Rand
	forbidden [][2]string
	logger    *slog.Logger
	recorder  Recorder
	now       func() time.Time
	newRunID  func() string
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand sets the random source of the regular and first-year
// strategies.
func WithRand(r Rand) Option { return func(a *Allocator) { a.rng = r } }

// WithSeed is WithRand with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithForbiddenPairs replaces the first-year forbidden department pairs.
func WithForbiddenPairs(pairs [][2]string) Option {
	return func(a *Allocator) { a.forbidden = pairs }
}

// WithLease adds a cross-process lease taken for the duration of a run.
func WithLease(l Lease) Option { return func(a *Allocator) { a.lease = l } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(a *Allocator) { a.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option { return func(a *Allocator) { a.recorder = r } }

// New returns an Allocator over the given stores.
func New(students StudentStore, rooms RoomStore, opts ...Option) *Allocator {
	a := &Allocator{
		students:  students,
		rooms:     rooms,
		forbidden: DefaultForbiddenPairs,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:  nopRecorder{},
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// Run executes one allocation pass with the given strategy. Assignments
// already persisted when a store error aborts the run stay in place.
func (a *Allocator) Run(ctx context.Context, strategy Strategy) (*Result, error) {
	var fill func(context.Context, *Result) error
	switch strategy {
	case StrategyRegular:
		fill = a.runRegular
	case StrategyFirstYear:
		fill = a.runFirstYear
	case StrategyUniversity:
		fill = a.runUniversity
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	start := a.now()
	if !a.mu.TryLock() {
		a.recorder.RunFinished(strategy, OutcomeBusy, 0, 0)
		return nil, ErrRunInProgress
	}
	defer a.mu.Unlock()

	if a.lease != nil {
		release, err := a.lease.Acquire(ctx)
		if err != nil {
			outcome := OutcomeLease
			if errors.Is(err, ErrRunInProgress) {
				outcome = OutcomeBusy
			}
			a.recorder.RunFinished(strategy, outcome, 0, 0)
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn("allocation lease release failed", "error", err)
			}
		}()
	}

	res := &Result{RunID: a.newRunID(), Strategy: strategy, StartedAt: start}
	err := fill(ctx, res)
	res.Duration = a.now().Sub(start)

	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, ErrConfig):
		outcome = OutcomeConfig
	case err != nil:
		outcome = OutcomeFailed
	case res.Rooms == 0:
		outcome = OutcomeNoop
	}
	a.recorder.RunFinished(strategy, outcome, res.Seats(), res.Duration)

	if err != nil {
		a.logger.Error("allocation run failed",
			"run_id", res.RunID, "strategy", strategy, "seated", res.Seats(), "error", err)
		return res, err
	}
	a.logger.Info("allocation run finished",
		"run_id", res.RunID, "strategy", strategy, "rooms", res.Rooms, "seated", res.Seats(), "elapsed", res.Duration)
	return res, nil
}

// load reads students and rooms and validates both. ok is false when
// there is nothing to do.
func (a *Allocator) load(ctx context.Context, list func(context.Context, model.StudentOrder) ([]model.Student, error),
	order model.StudentOrder, sortedRooms, needYear bool) (students []model.Student, rooms []model.Room, ok bool, err error) {
	students, err = list(ctx, order)
	if err != nil {
		return nil, nil, false, fmt.Errorf("list students: %w", err)
	}
	rooms, err = a.rooms.ListRooms(ctx, sortedRooms)
	if err != nil {
		return nil, nil, false, fmt.Errorf("list rooms: %w", err)
	}
	if len(students) == 0 || len(rooms) == 0 {
		return nil, nil, false, nil
	}
	if err := validateRooms(rooms); err != nil {
		return nil, nil, false, err
	}
	if err := validateStudents(students, needYear); err != nil {
		return nil, nil, false, err
	}
	return students, rooms, true, nil
}

func sortRooms(rooms []model.Room) {
	slices.SortStableFunc(rooms, func(x, y model.Room) int { return cmp.Compare(x.RoomNo, y.RoomNo) })
}

func (a *Allocator) persist(ctx context.Context, as Assignment) error {
	if err := a.students.SetSeat(ctx, as.StudentID, as.RoomNo, as.SeatNo); err != nil {
		return fmt.Errorf("seat %s in %s at %s: %w", as.StudentID, as.RoomNo, as.SeatNo, err)
	}
	return nil
}

// fillRandomized drives the regular and first-year strategies: fill a
// room, then persist what it produced, room after room.
func (a *Allocator) fillRandomized(ctx context.Context, res *Result, rooms []model.Room, idx *cohortIndex, pol policy) error {
	for _, room := range rooms {
		if idx.empty() {
			break
		}
		seated := fillRoom(room, idx, pol, a.rng)
		if len(seated) == 0 {
			continue
		}
		res.Rooms++
		for _, as := range seated {
			if err := a.persist(ctx, as); err != nil {
				return err
			}
			res.Assignments = append(res.Assignments, as)
		}
		a.logger.Debug("room filled", "run_id", res.RunID, "room", room.RoomNo, "seated", len(seated))
	}
	return nil
}

func (a *Allocator) runRegular(ctx context.Context, res *Result) error {
	students, rooms, ok, err := a.load(ctx, a.students.ListUnallocated, model.OrderByCohort, false, true)
	if err != nil || !ok {
		return err
	}
	a.rng.Shuffle(len(rooms), func(i, j int) { rooms[i], rooms[j] = rooms[j], rooms[i] })
	idx := buildCohortIndex(students, regularKey)
	return a.fillRandomized(ctx, res, rooms, idx, regularPolicy())
}

func (a *Allocator) runFirstYear(ctx context.Context, res *Result) error {
	students, rooms, ok, err := a.load(ctx, a.students.ListUnallocated, model.OrderByID, true, false)
	if err != nil || !ok {
		return err
	}
	sortRooms(rooms)
	idx := buildCohortIndex(students, deptKey)
	return a.fillRandomized(ctx, res, rooms, idx, firstYearPolicy(a.forbidden))
}

// runUniversity re-seats the whole population. The reset happens only
// after validation so a configuration error leaves prior seats intact.
func (a *Allocator) runUniversity(ctx context.Context, res *Result) error {
	students, rooms, ok, err := a.load(ctx, a.students.ListAll, model.OrderByID, true, false)
	if err != nil || !ok {
		return err
	}
	sortRooms(rooms)
	if err := a.students.ClearSeats(ctx); err != nil {
		return fmt.Errorf("clear seats: %w", err)
	}
	w := newWaterfall(buildCohortIndex(students, deptKey))
	for _, room := range rooms {
		before := len(res.Assignments)
		err := w.fillRoom(ctx, room, func(ctx context.Context, as Assignment) error {
			if err := a.persist(ctx, as); err != nil {
				return err
			}
			res.Assignments = append(res.Assignments, as)
			return nil
		})
		if len(res.Assignments) > before {
			res.Rooms++
		}
		if err != nil {
			return err
		}
		if w.drained {
			break
		}
	}
	return nil
}
