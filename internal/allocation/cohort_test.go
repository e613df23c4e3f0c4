package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

func ids(q *queue) []string {
	var out []string
	for _, s := range q.students[q.next:] {
		out = append(out, s.StudentID)
	}
	return out
}

func TestBuildCohortIndexOrdersQueuesByID(t *testing.T) {
	idx := buildCohortIndex([]model.Student{
		stu("CSE03", "cse"), stu("ECE01", "ECE"), stu("CSE01", "CSE"), stu("CSE02", " CSE "),
	}, deptKey)

	require.Len(t, idx.queues, 2)
	assert.Equal(t, "CSE", idx.queues[0].cohort.Dept)
	assert.Equal(t, []string{"CSE01", "CSE02", "CSE03"}, ids(idx.queues[0]))
	assert.Equal(t, []string{"ECE01"}, ids(idx.queues[1]))
	assert.Equal(t, 4, idx.remaining())
}

func TestBuildCohortIndexRegularKey(t *testing.T) {
	idx := buildCohortIndex([]model.Student{
		stuY("B2", "CSE", 2, "a"),
		stuY("A1", "CSE", 1, "A"),
		stuY("A2", "CSE", 1, "B"),
		stuY("B1", "CSE", 2, "A"),
		stuY("C1", "ECE", 1, "A"),
	}, regularKey)

	var keys []Cohort
	for _, q := range idx.queues {
		keys = append(keys, q.cohort)
	}
	assert.Equal(t, []Cohort{
		{Year: 1, Dept: "CSE", Div: "A"},
		{Year: 1, Dept: "CSE", Div: "B"},
		{Year: 1, Dept: "ECE", Div: "A"},
		{Year: 2, Dept: "CSE", Div: "A"},
	}, keys)
	assert.Equal(t, []string{"B1", "B2"}, ids(idx.queues[3]))
}

func TestQueuePopIsFIFO(t *testing.T) {
	idx := buildCohortIndex(batch("EEE", 3), deptKey)
	q := idx.queues[0]
	assert.Equal(t, "EEE01", q.pop().StudentID)
	assert.Equal(t, "EEE02", q.pop().StudentID)
	assert.Equal(t, 1, q.remaining())
	assert.Equal(t, "EEE03", q.pop().StudentID)
	assert.True(t, q.empty())
	assert.True(t, idx.empty())
	assert.Empty(t, idx.nonEmpty(nil))
}

func TestBuildCohortIndexEmpty(t *testing.T) {
	idx := buildCohortIndex(nil, deptKey)
	assert.True(t, idx.empty())
	assert.Empty(t, idx.queues)
}
