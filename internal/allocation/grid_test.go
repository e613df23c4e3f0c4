package allocation

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

func seatMap(as []Assignment) map[string]string {
	out := make(map[string]string, len(as))
	for _, a := range as {
		out[a.SeatNo] = a.StudentID
	}
	return out
}

func TestFillRoomFirstYearExampleAIMLFirst(t *testing.T) {
	// Candidates are ordered AIML, CSE; picking index 0 starts with AIML.
	idx := buildCohortIndex([]model.Student{stu("CSE01", "CSE"), stu("CSE02", "CSE"), stu("AIML01", "AIML")}, deptKey)
	as := fillRoom(room("R1", 2, 2), idx, firstYearPolicy(DefaultForbiddenPairs), fixedRand{pick: 0})

	assert.Equal(t, map[string]string{"A1": "AIML01", "A2": "CSE01", "B1": "CSE02"}, seatMap(as))
	cells := byCell(as, "R1")
	assert.True(t, cells[[2]int{0, 1}].Switched, "AIML runs dry after one seat")
	assert.True(t, cells[[2]int{1, 0}].Fallback, "CSE next to AIML needs the relaxed tier")
	assert.True(t, idx.empty())
}

func TestFillRoomFirstYearExampleCSEFirst(t *testing.T) {
	idx := buildCohortIndex([]model.Student{stu("CSE01", "CSE"), stu("CSE02", "CSE"), stu("AIML01", "AIML")}, deptKey)
	as := fillRoom(room("R1", 2, 2), idx, firstYearPolicy(DefaultForbiddenPairs), fixedRand{pick: 1})

	assert.Equal(t, map[string]string{"A1": "CSE01", "A2": "CSE02", "B1": "AIML01"}, seatMap(as))
	b1 := byCell(as, "R1")[[2]int{1, 0}]
	assert.True(t, b1.Fallback)
	assert.False(t, b1.Switched)
}

func TestFillRoomFirstYearForcedExhaustion(t *testing.T) {
	// Only CSE remains: the second column can only be filled from the
	// last-resort tier, placing CSE next to CSE.
	idx := buildCohortIndex(batch("CSE", 4), deptKey)
	as := fillRoom(room("R1", 2, 2), idx, firstYearPolicy(DefaultForbiddenPairs), rand.New(rand.NewPCG(1, 2)))

	require.Len(t, as, 4)
	for _, a := range as {
		assert.Equal(t, a.Col == 1, a.Fallback, "seat %s", a.SeatNo)
		assert.Equal(t, "CSE", a.Cohort.Dept)
	}
	assert.Equal(t, []string{"CSE01", "CSE02", "CSE03", "CSE04"}, []string{as[0].StudentID, as[1].StudentID, as[2].StudentID, as[3].StudentID})
}

func TestFillRoomForbiddenPairOnlyUnderFallback(t *testing.T) {
	pairs := newPairSet(DefaultForbiddenPairs)
	students := append(append(append(batch("CSE", 7), batch("AIML", 5)...), batch("ECE", 6)...), batch("EEE", 4)...)
	rooms := []model.Room{room("R1", 3, 4), room("R2", 2, 5)}

	for seed := uint64(0); seed < 40; seed++ {
		idx := buildCohortIndex(students, deptKey)
		rng := rand.New(rand.NewPCG(seed, seed))
		var all []Assignment
		for _, rm := range rooms {
			all = append(all, fillRoom(rm, idx, firstYearPolicy(DefaultForbiddenPairs), rng)...)
		}
		requireValid(t, all, rooms)
		requireAdjacency(t, all, rooms, pairs.firstYearCompatible)

		for _, rm := range rooms {
			cells := byCell(all, rm.RoomNo)
			for c := 1; c < rm.Cols; c++ {
				for r := 0; r < rm.Rows; r++ {
					cur, ok := cells[[2]int{c, r}]
					if !ok {
						continue
					}
					left := cells[[2]int{c - 1, r}]
					if pairs.firstYearCompatible(cur.Cohort, left.Cohort) {
						continue
					}
					relaxed := cur.Fallback || columnSwitched(cells, c, rm.Rows) || columnSwitched(cells, c-1, rm.Rows)
					assert.True(t, relaxed, "seed %d room %s: %s beside %s at row %d", seed, rm.RoomNo, cur.Cohort, left.Cohort, r+1)
				}
			}
		}
	}
}

func TestFillRoomRegularProperties(t *testing.T) {
	var students []model.Student
	for _, dept := range []string{"CSE", "ECE", "MECH"} {
		for year := 1; year <= 3; year++ {
			for _, div := range []string{"A", "B"} {
				for i := 1; i <= 3; i++ {
					students = append(students, stuY(dept+string(rune('0'+year))+div+string(rune('0'+i)), dept, year, div))
				}
			}
		}
	}
	rooms := []model.Room{room("H1", 4, 5), room("H2", 3, 6), room("H3", 5, 4)}

	for seed := uint64(0); seed < 40; seed++ {
		idx := buildCohortIndex(students, regularKey)
		rng := rand.New(rand.NewPCG(seed, 7))
		var all []Assignment
		for _, rm := range rooms {
			all = append(all, fillRoom(rm, idx, regularPolicy(), rng)...)
		}
		require.Len(t, all, len(students), "seed %d: every student fits", seed)
		requireValid(t, all, rooms)
		requireAdjacency(t, all, rooms, regularCompatible)
	}
}

func TestFillRoomStopsWhenCohortsRunOut(t *testing.T) {
	idx := buildCohortIndex(batch("CSE", 3), deptKey)
	as := fillRoom(room("R1", 2, 3), idx, firstYearPolicy(DefaultForbiddenPairs), fixedRand{})
	require.Len(t, as, 3)
	assert.Equal(t, map[string]string{"A1": "CSE01", "A2": "CSE02", "B1": "CSE03"}, seatMap(as))

	assert.Empty(t, fillRoom(room("R2", 2, 2), idx, firstYearPolicy(DefaultForbiddenPairs), fixedRand{}))
}

func TestFillRoomZeroDimensions(t *testing.T) {
	idx := buildCohortIndex(batch("CSE", 3), deptKey)
	assert.Empty(t, fillRoom(room("R0", 0, 4), idx, regularPolicy(), fixedRand{}))
	assert.Empty(t, fillRoom(room("R0", 4, 0), idx, regularPolicy(), fixedRand{}))
	assert.Equal(t, 3, idx.remaining())
}

func TestFillRoomSeededIsReproducible(t *testing.T) {
	students := append(append(batch("CSE", 9), batch("ECE", 8)...), batch("EEE", 7)...)
	run := func() []Assignment {
		idx := buildCohortIndex(students, deptKey)
		return fillRoom(room("R1", 4, 6), idx, firstYearPolicy(DefaultForbiddenPairs), rand.New(rand.NewPCG(99, 1)))
	}
	assert.Equal(t, run(), run())
}
