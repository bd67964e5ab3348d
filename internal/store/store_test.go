package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

func openAt(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return openAt(t, filepath.Join(t.TempDir(), "screentime-test.db"))
}

func at(min int) *time.Time {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
	return &ts
}

func ptr[T any](v T) *T { return &v }

func TestOpen_AppliesMigrations(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"adjustment_type", "adjustment", "time_entry"} {
		var n int
		require.NoError(t, s.conn.QueryRow(`SELECT count(*) FROM `+table).Scan(&n), table)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	first := openAt(t, path)
	_, err := first.AddAdjustmentType(context.Background(), models.NewAdjustmentType{Description: "a", Adjustment: 1})
	require.NoError(t, err)

	second := openAt(t, path)
	types, err := second.AdjustmentTypes(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
}

func TestAdjustmentTypes_CRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	chores, err := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "Chores", Adjustment: 15})
	require.NoError(t, err)
	late, err := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "Late", Adjustment: -10})
	require.NoError(t, err)
	assert.NotEqual(t, chores.ID, late.ID)

	got, err := s.AdjustmentType(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, *late, *got)

	list, err := s.AdjustmentTypes(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.AdjustmentType{*chores, *late}, list)

	list, err = s.AdjustmentTypes(ctx, ptr(uint8(1)))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := s.DeleteAdjustmentType(ctx, chores.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.AdjustmentType(ctx, chores.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	n, err = s.DeleteAdjustmentType(ctx, chores.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestAdjustmentTypes_ExtremeDeltas(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	lo, err := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "min", Adjustment: -128})
	require.NoError(t, err)
	hi, err := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "max", Adjustment: 127})
	require.NoError(t, err)

	m, err := s.AdjustmentTypesForIDs(ctx, []uint64{lo.ID, hi.ID, 999})
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, int8(-128), m[lo.ID].Adjustment)
	assert.Equal(t, int8(127), m[hi.ID].Adjustment)
}

func TestAdjustmentTypesForIDs_Empty(t *testing.T) {
	s := testStore(t)
	m, err := s.AdjustmentTypesForIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestAdjustments_FilterAndOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a, _ := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "a", Adjustment: 1})
	b, _ := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "b", Adjustment: -1})

	for i := 0; i < 12; i++ {
		typeID := a.ID
		if i%2 == 1 {
			typeID = b.ID
		}
		_, err := s.AddAdjustment(ctx, models.NewAdjustment{AdjustmentTypeID: typeID, Created: at(i)})
		require.NoError(t, err)
	}

	all, err := s.Adjustments(ctx, models.AdjustmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 10, "default limit")
	assert.True(t, all[0].Created.Equal(*at(11)), "newest first")
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Created.After(all[i-1].Created))
	}

	unbounded, err := s.Adjustments(ctx, models.AdjustmentFilter{Unbounded: true})
	require.NoError(t, err)
	assert.Len(t, unbounded, 12)

	onlyB, err := s.Adjustments(ctx, models.AdjustmentFilter{TypeID: &b.ID, Unbounded: true})
	require.NoError(t, err)
	assert.Len(t, onlyB, 6)
	for _, adj := range onlyB {
		assert.Equal(t, b.ID, adj.AdjustmentTypeID)
	}

	since, err := s.Adjustments(ctx, models.AdjustmentFilter{Since: at(9), Unbounded: true})
	require.NoError(t, err)
	require.Len(t, since, 3, "since is inclusive")
	assert.True(t, since[2].Created.Equal(*at(9)))

	limited, err := s.Adjustments(ctx, models.AdjustmentFilter{Limit: ptr(uint8(2)), Since: at(3), TypeID: &a.ID})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.True(t, limited[0].Created.Equal(*at(10)))
	assert.True(t, limited[1].Created.Equal(*at(8)))
}

func TestAdjustments_SameTimestampOrderedByID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	typ, _ := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "a", Adjustment: 1})

	first, _ := s.AddAdjustment(ctx, models.NewAdjustment{AdjustmentTypeID: typ.ID, Created: at(0)})
	second, _ := s.AddAdjustment(ctx, models.NewAdjustment{AdjustmentTypeID: typ.ID, Created: at(0)})

	list, err := s.Adjustments(ctx, models.AdjustmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestAdjustment_CommentAndDefaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	typ, _ := s.AddAdjustmentType(ctx, models.NewAdjustmentType{Description: "a", Adjustment: 1})
	withComment, err := s.AddAdjustment(ctx, models.NewAdjustment{AdjustmentTypeID: typ.ID, Comment: ptr("dishes")})
	require.NoError(t, err)
	withoutComment, err := s.AddAdjustment(ctx, models.NewAdjustment{AdjustmentTypeID: typ.ID})
	require.NoError(t, err)

	got, err := s.Adjustment(ctx, withComment.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Comment)
	assert.Equal(t, "dishes", *got.Comment)
	assert.True(t, got.Created.Equal(fixed))

	got, err = s.Adjustment(ctx, withoutComment.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Comment)

	n, err := s.CountAdjustmentsForType(ctx, typ.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	deleted, err := s.DeleteAdjustment(ctx, withComment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = s.Adjustment(ctx, withComment.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdjustment_ForeignKeyEnforced(t *testing.T) {
	s := testStore(t)
	_, err := s.AddAdjustment(context.Background(), models.NewAdjustment{AdjustmentTypeID: 42})
	require.Error(t, err)
}

func TestTimeEntries_CurrentAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cur, err := s.CurrentTimeEntry(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur, "empty log has no current entry")

	older, err := s.AddTimeEntry(ctx, models.NewTimeEntry{Time: 60, Created: at(0)})
	require.NoError(t, err)
	newer, err := s.AddTimeEntry(ctx, models.NewTimeEntry{Time: 120, Created: at(10)})
	require.NoError(t, err)
	// Backdated insert must not become current.
	_, err = s.AddTimeEntry(ctx, models.NewTimeEntry{Time: 5, Created: at(5)})
	require.NoError(t, err)

	cur, err = s.CurrentTimeEntry(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, newer.ID, cur.ID)
	assert.Equal(t, uint16(120), cur.Time)

	list, err := s.TimeEntries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, older.ID, list[2].ID)

	got, err := s.TimeEntry(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.Created.Equal(*at(0)))

	n, err := s.DeleteTimeEntry(ctx, newer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.TimeEntry(ctx, newer.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTimeEntries_MaxValue(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	e, err := s.AddTimeEntry(ctx, models.NewTimeEntry{Time: 65535})
	require.NoError(t, err)

	got, err := s.TimeEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), got.Time)
}

func TestRebind(t *testing.T) {
	pg := New(nil, DriverPostgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)"))

	lite := New(nil, DriverSQLite)
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestToMillisCeil(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, base.UnixMilli(), toMillisCeil(base))
	assert.Equal(t, base.UnixMilli()+1, toMillisCeil(base.Add(time.Microsecond)))
}
