package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/proofcheck/internal/validate"
)

func TestSignature(t *testing.T) {
	sig := Signature("A1234567_ref.pdf", 1000, "A1234567_proof.pdf", 2000)
	assert.Len(t, sig, 32)

	// Stable across calls, sensitive to any component.
	assert.Equal(t, sig, Signature("A1234567_ref.pdf", 1000, "A1234567_proof.pdf", 2000))
	assert.NotEqual(t, sig, Signature("A1234567_ref.pdf", 1001, "A1234567_proof.pdf", 2000))
	assert.NotEqual(t, sig, Signature("B1234567_ref.pdf", 1000, "A1234567_proof.pdf", 2000))

	// Sides are role-tagged: swapping reference and proof changes the key.
	assert.NotEqual(t, sig, Signature("A1234567_proof.pdf", 2000, "A1234567_ref.pdf", 1000))
}

func entry(sig, code string, score float64) Entry {
	return Entry{
		Signature:  sig,
		Code:       code,
		Similarity: &score,
		Validation: "approved",
		UpdatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreUpsertAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	store := NewFileStore(path)

	// Missing file reads as empty, not an error.
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, store.Upsert([]Entry{entry("sig-a", "A1234567", 97.5), entry("sig-b", "B7654321", 88.0)}))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "A1234567", loaded["sig-a"].Code)

	// Upserting an existing signature replaces, not duplicates.
	updated := entry("sig-a", "A1234567", 42.0)
	updated.Validation = "rejected"
	updated.PageValidations = map[int]validate.PageValidation{
		0: {Status: validate.PageRejected, Comment: "smear"},
	}
	require.NoError(t, store.Upsert([]Entry{updated}))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "rejected", loaded["sig-a"].Validation)
	assert.Equal(t, 42.0, *loaded["sig-a"].Similarity)
	assert.Equal(t, "smear", loaded["sig-a"].PageValidations[0].Comment)
}

// recordingStore counts Upsert batches for scheduler assertions.
type recordingStore struct {
	batches [][]Entry
}

func (r *recordingStore) Upsert(entries []Entry) error {
	r.batches = append(r.batches, entries)
	return nil
}

func (r *recordingStore) Load() (map[string]Entry, error) { return nil, nil }

func TestSchedulerCollapsesSameSignature(t *testing.T) {
	store := &recordingStore{}
	sched := NewScheduler(store, time.Hour, 100)

	// Three updates to the same pair inside one debounce window collapse to
	// the latest state.
	require.NoError(t, sched.Enqueue(entry("sig-a", "A1234567", 10)))
	require.NoError(t, sched.Enqueue(entry("sig-a", "A1234567", 20)))
	require.NoError(t, sched.Enqueue(entry("sig-a", "A1234567", 30)))

	require.NoError(t, sched.Flush())
	require.Len(t, store.batches, 1)
	require.Len(t, store.batches[0], 1)
	assert.Equal(t, 30.0, *store.batches[0][0].Similarity)
}

func TestSchedulerFlushesAtSizeThreshold(t *testing.T) {
	store := &recordingStore{}
	sched := NewScheduler(store, time.Hour, 2)
	defer sched.Close()

	require.NoError(t, sched.Enqueue(entry("sig-a", "A1234567", 10)))
	assert.Empty(t, store.batches)

	// The second distinct signature hits the size trigger.
	require.NoError(t, sched.Enqueue(entry("sig-b", "B7654321", 20)))
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 2)
}

func TestSchedulerFlushesOnClose(t *testing.T) {
	store := &recordingStore{}
	sched := NewScheduler(store, time.Hour, 100)

	require.NoError(t, sched.Enqueue(entry("sig-a", "A1234567", 10)))
	require.NoError(t, sched.Close())

	require.Len(t, store.batches, 1)
	assert.Equal(t, "sig-a", store.batches[0][0].Signature)

	// Close is idempotent.
	require.NoError(t, sched.Close())
	assert.Len(t, store.batches, 1)
}

func TestSchedulerEmptyFlushWritesNothing(t *testing.T) {
	store := &recordingStore{}
	sched := NewScheduler(store, time.Hour, 100)
	defer sched.Close()

	require.NoError(t, sched.Flush())
	assert.Empty(t, store.batches)
}
