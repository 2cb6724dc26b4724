package tablequery

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_EndToEnd(t *testing.T) {
	rec := new(tRecorder)
	store := NewStore(_twoColumns, rec.listen).WithDebounce(20 * time.Millisecond)
	defer store.Close()

	store.SetCurrentPage(1)
	store.SetPageSize(7)
	store.SetTotalItems(2)
	store.Initialize()

	require.Equal(t, Filters{Values: map[string]string{"name": ""}}, store.Params().Filters)

	store.HandleFilterInput(FilterInput{SourceName: "name", Value: "abc"})
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	first := rec.last()
	assert.False(t, first.PaginationOnly)
	assert.Equal(t, Params{
		Filters:    Filters{Values: map[string]string{"name": "abc"}},
		Pagination: Pagination{CurrentPage: intPtr(1), PageSize: intPtr(7), TotalItems: intPtr(2)},
	}, first.Params)

	store.SetCurrentPage(2)
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)

	second := rec.last()
	assert.True(t, second.PaginationOnly)
	assert.Equal(t, "abc", second.Params.Filters.Values["name"])
	assert.Equal(t, 2, second.Params.Pagination.GetCurrentPage())
}

func Test_Store_InitializationSuppression(t *testing.T) {
	rec := new(tRecorder)
	store := NewStore(_twoColumns, rec.listen).WithScheduler(ImmediateScheduler{})

	store.SetTotalItems(2)
	store.SetFilterValue("name", "early")
	store.ToggleSort("name")
	require.Equal(t, 0, rec.count(), "mutations before initialization are not reported")

	store.Initialize()
	require.Equal(t, 0, rec.count(), "seeding is not reported")

	store.SetCurrentPage(2)
	require.Equal(t, 1, rec.count())

	// Seeding again after initialization is an ordinary mutation.
	store.InitializeFilters()
	require.Equal(t, 2, rec.count())
}

func Test_Store_DebounceCollapse(t *testing.T) {
	rec := new(tRecorder)
	store := NewStore(_twoColumns, rec.listen).WithDebounce(30 * time.Millisecond)
	defer store.Close()
	store.Initialize()

	for _, v := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		store.SetFilterValue("name", v)
	}
	store.SetCurrentPage(3)

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(90 * time.Millisecond)
	require.Equal(t, 1, rec.count())

	last := rec.last()
	assert.Equal(t, "abcde", last.Params.Filters.Values["name"])
	assert.Equal(t, 3, last.Params.Pagination.GetCurrentPage())
	assert.False(t, last.PaginationOnly)
}

func Test_Store_Close_DropsPendingEmission(t *testing.T) {
	var calls atomic.Int32
	store := NewStore(_twoColumns, func(ChangeEvent) { calls.Add(1) }).WithDebounce(20 * time.Millisecond)
	store.Initialize()

	store.SetFilterValue("name", "x")
	store.Close()

	time.Sleep(60 * time.Millisecond)
	require.EqualValues(t, 0, calls.Load())
}

func Test_Store_SetFilterValue(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		filter string
		value  string
		want   map[string]string
	}{
		{
			name:   "value stored verbatim",
			filter: "name",
			value:  "  Abc ",
			want:   map[string]string{"name": "  Abc ", "status": ""},
		},
		{
			name:   "default unset marker clears",
			filter: "status",
			value:  DefaultUnsetMarker,
			want:   map[string]string{"name": "", "status": ""},
		},
		{
			name:   "custom unset marker clears",
			marker: "Any",
			filter: "status",
			value:  "Any",
			want:   map[string]string{"name": "", "status": ""},
		},
		{
			name:   "unknown filter name is added",
			filter: "city",
			value:  "Oslo",
			want:   map[string]string{"name": "", "status": "", "city": "Oslo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := new(tRecorder)
			store := NewStore(_scopeColumns, rec.listen).
				WithScheduler(ImmediateScheduler{}).
				WithUnsetMarker(tt.marker)
			store.Initialize()
			store.ToggleSort("name")

			store.SetFilterValue(tt.filter, tt.value)

			params := store.Params()
			require.Equal(t, tt.want, params.Filters.Values)
			require.Equal(t, &SortOrder{Column: "name", Direction: DirectionASC}, params.Filters.SortOrder)
		})
	}
}

func Test_Store_SortCycle(t *testing.T) {
	store, rec := newSyncStore(_twoColumns)

	want := []*SortOrder{
		{Column: "name", Direction: DirectionASC},
		{Column: "name", Direction: DirectionDESC},
		nil,
		{Column: "name", Direction: DirectionASC},
		{Column: "name", Direction: DirectionDESC},
		nil,
	}
	for i, w := range want {
		store.HandleSortClick(SortClick{Column: _twoColumns[1]})

		require.Equal(t, w, store.Params().Filters.SortOrder, "click %d", i+1)
		require.False(t, rec.last().PaginationOnly, "click %d", i+1)
	}
}

func Test_Store_SortExclusivity(t *testing.T) {
	for _, clicksOnA := range []int{1, 2, 3} {
		store, _ := newSyncStore(_twoColumns)

		for i := 0; i < clicksOnA; i++ {
			store.ToggleSort("a")
		}
		store.ToggleSort("b")

		require.Equal(t, &SortOrder{Column: "b", Direction: DirectionASC}, store.Params().Filters.SortOrder)
		require.True(t, store.IsSortedBy("b", DirectionASC))
		require.False(t, store.IsSortedBy("a", DirectionASC))
		require.False(t, store.IsSortedBy("a", DirectionDESC))
	}
}

func Test_Store_SortClearRemovesKey(t *testing.T) {
	store, rec := newSyncStore(_twoColumns)

	store.ToggleSort("name")
	store.ToggleSort("name")
	store.ToggleSort("name")

	require.Nil(t, store.Params().Filters.SortOrder)
	require.Equal(t, map[string]string{"name": ""}, rec.last().Params.Filters.Values)
	require.NotContains(t, mustJSON(t, rec.last().Params.Filters), SortOrderKey)
}

func Test_Store_PaginationDefaultsAreNotStored(t *testing.T) {
	store, _ := newSyncStore(_twoColumns)

	assert.Equal(t, DefaultCurrentPage, store.CurrentPage())
	assert.Equal(t, DefaultPageSize, store.PageSize())
	assert.Equal(t, DefaultTotalItems, store.TotalItems())
	assert.Equal(t, Pagination{}, store.Params().Pagination)
}

func Test_Store_SetPagination_ShallowMerge(t *testing.T) {
	store, _ := newSyncStore(_twoColumns)

	store.SetPagination(FieldPageSize, 10)
	store.SetPagination(FieldTotalItems, 95)
	store.SetPagination(FieldCurrentPage, 0)

	assert.Equal(t, Pagination{CurrentPage: intPtr(0), PageSize: intPtr(10), TotalItems: intPtr(95)}, store.Params().Pagination)
	assert.Equal(t, PageRange{PageSize: 10, TotalItems: 95, CurrentPage: 0}, store.PageRange())
}

func Test_Store_HandlePageChange_FromNavigator(t *testing.T) {
	store, rec := newSyncStore(_twoColumns)
	store.SetTotalItems(20)
	rec.reset()

	nav := NewNavigator(store.PageRange()).OnPageChange(store.HandlePageChange)
	nav.Next()

	assert.Equal(t, 2, store.CurrentPage())
	assert.Equal(t, 7, store.PageSize())
	assert.Equal(t, 20, store.TotalItems())
	require.Equal(t, 3, rec.count(), "one synchronous event per pagination field")
	assert.True(t, rec.last().PaginationOnly)
}

func Test_Store_SnapshotsAreImmutable(t *testing.T) {
	store, rec := newSyncStore(_twoColumns)
	store.SetFilterValue("name", "abc")

	emitted := rec.last().Params
	emitted.Filters.Values["name"] = "tampered"

	snapshot := store.Params()
	snapshot.Filters.Values["name"] = "tampered too"

	assert.Equal(t, "abc", store.Params().Filters.Values["name"])

	store.SetFilterValue("name", "abcd")
	assert.Equal(t, "tampered", emitted.Filters.Values["name"])
}

func Test_Store_ListenerMayCallBack(t *testing.T) {
	var store *Store
	calls := 0
	store = NewStore(_twoColumns, func(e ChangeEvent) {
		calls++
		if !e.PaginationOnly {
			// Hosts typically report the new total after a re-fetch.
			store.SetTotalItems(42)
		}
	}).WithScheduler(ImmediateScheduler{})
	store.Initialize()

	store.SetFilterValue("name", "x")

	require.Equal(t, 2, calls)
	require.Equal(t, 42, store.TotalItems())
}

func Test_Store_InitializeFilters_Idempotent(t *testing.T) {
	store, _ := newSyncStore(_scopeColumns)
	once := store.Params().Filters

	store.InitializeFilters()

	require.True(t, once.Equal(store.Params().Filters))
}

func Test_Store_InitializeFilters_KeepsPagination(t *testing.T) {
	store, _ := newSyncStore(_twoColumns)
	store.SetCurrentPage(3)
	store.SetFilterValue("name", "abc")
	store.ToggleSort("name")

	store.SetColumns([]ColumnSpec{
		{Header: "oblong", Filter: &FilterSpec{Name: "rectangle"}},
		{Header: "ham", Filter: &FilterSpec{Name: "sandwich"}},
	})
	store.InitializeFilters()

	params := store.Params()
	assert.Equal(t, Filters{Values: map[string]string{"rectangle": "", "sandwich": ""}}, params.Filters)
	assert.Equal(t, 3, params.Pagination.GetCurrentPage())
	assert.Len(t, store.Columns(), 2)
}

func Test_Store_NoFilterableColumns_FirstPageChange(t *testing.T) {
	store, rec := newSyncStore([]ColumnSpec{{Header: "id"}})
	require.Empty(t, store.Params().Filters.Values)

	store.SetCurrentPage(2)
	require.Equal(t, 1, rec.count())
	assert.False(t, rec.last().PaginationOnly)

	store.SetCurrentPage(3)
	require.Equal(t, 2, rec.count())
	assert.True(t, rec.last().PaginationOnly)
}

func Test_Store_Logging(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore(_twoColumns, nil).
		WithScheduler(ImmediateScheduler{}).
		WithLogger(NewLogger("debug", &buf))

	store.SetFilterValue("name", "a")
	store.Initialize()
	store.ToggleSort("name")

	out := buf.String()
	assert.Contains(t, out, "change notification suppressed")
	assert.Contains(t, out, "table query store initialized")
	assert.Contains(t, out, "sort toggled")
	assert.Contains(t, out, "emitting change event")
}

func Test_NewStoreFromConfig(t *testing.T) {
	rec := new(tRecorder)
	cfg := Config{
		Columns:          _twoColumns,
		PageSize:         25,
		DebounceInterval: 15 * time.Millisecond,
		UnsetMarker:      "Any",
	}

	store := NewStoreFromConfig(cfg, rec.listen)
	defer store.Close()
	store.Initialize()

	store.SetFilterValue("name", "Any")
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 25, rec.last().Params.Pagination.GetPageSize())
	assert.Equal(t, "", rec.last().Params.Filters.Values["name"])
}
