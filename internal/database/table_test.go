package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrograms() *Table[model.Program] {
	return NewTable[model.Program]("program", NoLatency)
}

func TestTable_InsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()

	a, err := tbl.Insert(ctx, model.Program{Name: "Math"})
	require.NoError(t, err)
	b, err := tbl.Insert(ctx, model.Program{Name: "Physics"})
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
}

func TestTable_InsertRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()

	_, err := tbl.Insert(ctx, model.Program{Name: "Math"})
	require.NoError(t, err)

	_, err = tbl.Insert(ctx, model.Program{Name: "Math"})
	assert.ErrorIs(t, err, model.ErrDuplicateName)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestTable_IDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()

	a, _ := tbl.Insert(ctx, model.Program{Name: "Math"})
	require.NoError(t, tbl.Delete(ctx, a.ID))

	b, err := tbl.Insert(ctx, model.Program{Name: "Math"})
	require.NoError(t, err)
	assert.Equal(t, 2, b.ID)
}

func TestTable_GetAndGetByKey(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	p, _ := tbl.Insert(ctx, model.Program{Name: "Math", Description: "numbers"})

	got, err := tbl.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = tbl.GetByKey(ctx, "Math")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = tbl.Get(ctx, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = tbl.GetByKey(ctx, "Biology")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = tbl.GetByKey(ctx, "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTable_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	for _, n := range []string{"C", "A", "B"} {
		_, err := tbl.Insert(ctx, model.Program{Name: n})
		require.NoError(t, err)
	}
	require.NoError(t, tbl.Delete(ctx, 2))

	all, err := tbl.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "C", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
}

func TestTable_UpdateRenames(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	p, _ := tbl.Insert(ctx, model.Program{Name: "Math"})
	_, _ = tbl.Insert(ctx, model.Program{Name: "Physics"})

	name := "Mathematics"
	updated, err := tbl.Update(ctx, p.ID, func(cur model.Program, _ []model.Program) (model.Program, error) {
		return model.ProgramPatch{Name: &name}.Apply(cur), nil
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Mathematics", updated.Name)

	_, err = tbl.GetByKey(ctx, "Math")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = tbl.Insert(ctx, model.Program{Name: "Math"})
	assert.NoError(t, err, "old name is free again")
}

func TestTable_UpdateRejectsTakenKey(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	p, _ := tbl.Insert(ctx, model.Program{Name: "Math"})
	_, _ = tbl.Insert(ctx, model.Program{Name: "Physics"})

	_, err := tbl.Update(ctx, p.ID, func(cur model.Program, _ []model.Program) (model.Program, error) {
		cur.Name = "Physics"
		return cur, nil
	})
	assert.ErrorIs(t, err, model.ErrDuplicateName)

	got, _ := tbl.Get(ctx, p.ID)
	assert.Equal(t, "Math", got.Name)
}

func TestTable_UpdateSeesOthersOnly(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	p, _ := tbl.Insert(ctx, model.Program{Name: "Math"})
	_, _ = tbl.Insert(ctx, model.Program{Name: "Physics"})

	var seen []string
	_, err := tbl.Update(ctx, p.ID, func(cur model.Program, others []model.Program) (model.Program, error) {
		for _, o := range others {
			seen = append(seen, o.Name)
		}
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics"}, seen)
}

func TestTable_UpdateCallbackErrorLeavesRow(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()
	p, _ := tbl.Insert(ctx, model.Program{Name: "Math"})
	boom := errors.New("boom")

	_, err := tbl.Update(ctx, p.ID, func(cur model.Program, _ []model.Program) (model.Program, error) {
		return model.Program{}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := tbl.Get(ctx, p.ID)
	assert.Equal(t, p, got)

	_, err = tbl.Update(ctx, 42, func(cur model.Program, _ []model.Program) (model.Program, error) { return cur, nil })
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTable_FirstOrCreate(t *testing.T) {
	ctx := context.Background()
	tbl := newPrograms()

	a, created, err := tbl.FirstOrCreate(ctx, model.Program{Name: "Math", Description: "first"})
	require.NoError(t, err)
	assert.True(t, created)

	b, created, err := tbl.FirstOrCreate(ctx, model.Program{Name: "Math", Description: "second"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a, b)
}

func TestTable_FirstOrCreateConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[model.Program]("program", FixedLatency(time.Millisecond))

	var wg sync.WaitGroup
	ids := make([]int, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, _, err := tbl.FirstOrCreate(ctx, model.Program{Name: "Shared"})
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	all, err := tbl.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	for _, id := range ids {
		assert.Equal(t, all[0].ID, id)
	}
}

func TestTable_InsertConcurrentSameKeyOneWinner(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[model.Program]("program", FixedLatency(time.Millisecond))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tbl.Insert(ctx, model.Program{Name: "Race"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, model.ErrDuplicateName) {
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dupes)
}

func TestTable_InsertCheckedAbortsOnError(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[model.Schedule]("schedule", NoLatency)

	_, err := tbl.InsertChecked(ctx, func(all []model.Schedule) (model.Schedule, error) {
		return model.Schedule{}, model.ErrScheduleConflict
	})
	assert.ErrorIs(t, err, model.ErrScheduleConflict)

	all, _ := tbl.List(ctx)
	assert.Empty(t, all)
}

func TestTable_UnkeyedRecordsAllowRepeats(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[model.Schedule]("schedule", NoLatency)

	_, err := tbl.Insert(ctx, model.Schedule{CourseID: 1})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, model.Schedule{CourseID: 1})
	require.NoError(t, err)
}

func TestTable_DeleteWhere(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[model.Schedule]("schedule", NoLatency)
	for _, c := range []int{1, 2, 1, 3} {
		_, _ = tbl.Insert(ctx, model.Schedule{CourseID: c})
	}

	n, err := tbl.DeleteWhere(ctx, func(s model.Schedule) bool { return s.CourseID == 1 })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := tbl.List(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].CourseID)
	assert.Equal(t, 3, all[1].CourseID)

	assert.ErrorIs(t, tbl.Delete(ctx, 1), model.ErrNotFound)
}

func TestTable_CancelledContextAbortsBeforeWrite(t *testing.T) {
	tbl := NewTable[model.Program]("program", FixedLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tbl.Insert(ctx, model.Program{Name: "Math"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tbl.rows)
}

func TestFixedLatency_Wait(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedLatency(5*time.Millisecond).Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, FixedLatency(time.Hour).Wait(ctx), context.DeadlineExceeded)
}
