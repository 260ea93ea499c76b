package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/paragon/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a pinned clock and
// sequential batch IDs.
func createTestStore(t *testing.T) (*Store, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(testutil.Now)
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithClock(clock),
		WithIDGenerator(testutil.NewSequentialIDGenerator("batch")),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}
