package allocation

import "github.com/iliyamo/exam-seat-allocation/internal/model"

// Rand is the random source used by the regular and first-year
// strategies. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// grid records which cohort occupies each cell of a room.
type grid struct {
	rows, cols int
	cells      []*Cohort
}

func newGrid(rows, cols int) *grid {
	return &grid{rows: rows, cols: cols, cells: make([]*Cohort, rows*cols)}
}

func (g *grid) at(row, col int) *Cohort {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil
	}
	return g.cells[row*g.cols+col]
}

func (g *grid) set(row, col int, c Cohort) {
	g.cells[row*g.cols+col] = &c
}

// fillRoom seats students column by column. Each column gets a cohort
// picked at random among those compatible with the cohort at row 0 of
// the previous column; when that cohort runs dry mid-column a new one is
// picked against the neighbour in the current row. Filling stops at the
// first cell for which no cohort has students left.
func fillRoom(room model.Room, idx *cohortIndex, pol policy, rng Rand) []Assignment {
	if room.Rows <= 0 || room.Cols <= 0 {
		return nil
	}
	g := newGrid(room.Rows, room.Cols)
	var out []Assignment
	for c := 0; c < room.Cols; c++ {
		cands, tier := pol.candidates(idx, g.at(0, c-1))
		if len(cands) == 0 {
			return out
		}
		chosen := cands[rng.IntN(len(cands))]
		switched := false
		for r := 0; r < room.Rows; r++ {
			if chosen.empty() {
				cands, tier = pol.candidates(idx, g.at(r, c-1))
				if len(cands) == 0 {
					return out
				}
				chosen = cands[rng.IntN(len(cands))]
				switched = true
			}
			s := chosen.pop()
			g.set(r, c, chosen.cohort)
			out = append(out, Assignment{
				StudentID: s.StudentID,
				RoomNo:    room.RoomNo,
				SeatNo:    SeatLabel(c, r),
				Col:       c,
				Row:       r,
				Cohort:    chosen.cohort,
				Fallback:  tier > 1,
				Switched:  switched,
			})
		}
	}
	return out
}
