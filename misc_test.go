package tablequery

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type tMockFn func() (string, *gorm.DB, sqlmock.Sqlmock, error)

var _sqlMockFnList = []tMockFn{
	newGORMMySQLMock,
	newGORMPostgresMock,
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db, mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: mockDB,
	}), &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db, mock, nil
}

// tRecorder collects ChangeEvents delivered to a Listener.
type tRecorder struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (r *tRecorder) listen(e ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *tRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

func (r *tRecorder) last() ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return ChangeEvent{}
	}

	return r.events[len(r.events)-1]
}

func (r *tRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

var _twoColumns = []ColumnSpec{
	{Header: "id"},
	{Header: "name", Filter: &FilterSpec{Name: "name"}, Sortable: true},
}

// newSyncStore returns an initialized store that emits synchronously.
func newSyncStore(columns []ColumnSpec) (*Store, *tRecorder) {
	rec := new(tRecorder)
	store := NewStore(columns, rec.listen).WithScheduler(ImmediateScheduler{})
	store.Initialize()

	return store, rec
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	return string(data)
}

func intPtr(v int) *int {
	return &v
}
