package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// seqIDs returns deterministic UUID-shaped ids: aaaaaaa1-..., aaaaaaa2-...
func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("aaaaaa%02d-0000-4000-8000-000000000000", n)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yml")
	return NewStore(path, WithIDFunc(seqIDs()), WithNow(func() time.Time { return fixedNow }))
}

func titles(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestNewStore_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.All())
	assert.Empty(t, s.List())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "construction must not create the file")
}

func TestNewStore_CorruptFileIsEmptyAndHealsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yml")
	require.NoError(t, os.WriteFile(path, []byte("{{ not yaml"), 0o600))

	s := NewStore(path, WithIDFunc(seqIDs()))
	assert.Empty(t, s.All())

	_, err := s.Add("write report", 1, 30)
	require.NoError(t, err)

	onDisk, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"write report"}, titles(onDisk))
}

func TestAdd_AssignsUniqueIDsAndPersists(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "tasks.yml"))

	a, err := s.Add("same", 2, 10)
	require.NoError(t, err)
	b, err := s.Add("same", 2, 10)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Done)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	require.Len(t, onDisk, 2)
	assert.Equal(t, a.ID, onDisk[0].ID)
	assert.Equal(t, 2, onDisk[0].Quadrant)
	assert.Equal(t, 10, onDisk[0].EstimateMinutes)
}

func TestList_GroupsPendingByQuadrantInInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	for _, in := range []struct {
		title string
		q     int
	}{{"c1", 3}, {"a1", 1}, {"c2", 3}, {"a2", 1}, {"b1", 2}} {
		_, err := s.Add(in.title, in.q, 5)
		require.NoError(t, err)
	}
	_, ok, err := s.Done("a1")
	require.NoError(t, err)
	require.True(t, ok)

	groups := s.List()
	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].Quadrant)
	assert.Equal(t, []string{"a2"}, titles(groups[0].Tasks))
	assert.Equal(t, 2, groups[1].Quadrant)
	assert.Equal(t, []string{"b1"}, titles(groups[1].Tasks))
	assert.Equal(t, 3, groups[2].Quadrant)
	assert.Equal(t, []string{"c1", "c2"}, titles(groups[2].Tasks))
}

func TestList_ReloadsAfterExternalEdit(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("original", 1, 5)
	require.NoError(t, err)

	// Simulate a second process rewriting the file.
	require.NoError(t, WriteFile(s.Path(), []Task{
		{ID: "bbbbbbbb-0000-4000-8000-000000000000", Title: "from elsewhere", Quadrant: 4},
	}))

	groups := s.List()
	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0].Quadrant)
	assert.Equal(t, []string{"from elsewhere"}, titles(groups[0].Tasks))
}

func TestDone_MarksFirstMatchOnly(t *testing.T) {
	s := newTestStore(t)
	first, _ := s.Add("Dup", 1, 5)
	second, _ := s.Add("dup", 1, 5)

	got, ok, err := s.Done("DUP")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.Done)
	require.NotNil(t, got.Completed)
	assert.Equal(t, fixedNow, *got.Completed)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, onDisk[0].Done)
	assert.False(t, onDisk[1].Done)
	assert.Equal(t, second.ID, onDisk[1].ID)
}

func TestDone_NoMatchDoesNotWrite(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Done("nothing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestDone_MatchesIDPrefixCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("one", 1, 5)
	two, _ := s.Add("two", 1, 5)

	got, ok, err := s.Done("AAAAAA02")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, two.ID, got.ID)
}

func TestDel_RemovesAllMatches(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("Standup", 1, 15)
	_, _ = s.Add("review", 2, 30)
	_, _ = s.Add("standup", 3, 15)

	removed, err := s.Del("STANDUP")
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, []string{"review"}, titles(onDisk))
}

func TestDel_TwiceIsANoOpPersist(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("gone", 1, 5)

	removed, err := s.Del("gone")
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	removed, err = s.Del("gone")
	require.NoError(t, err)
	assert.Empty(t, removed)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	assert.Empty(t, onDisk)
}

func TestDel_PersistsEvenWithoutMatch(t *testing.T) {
	s := newTestStore(t)

	removed, err := s.Del("nothing")
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, statErr := os.Stat(s.Path())
	assert.NoError(t, statErr, "del writes the file unconditionally")
}

func TestFind(t *testing.T) {
	s := newTestStore(t)
	added, _ := s.Add("Write Tests", 2, 45)

	got, err := s.Find("write tests")
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)

	got, err = s.Find(added.ID[:4])
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)

	_, err = s.Find("missing")
	require.Error(t, err)
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))
}

func TestMatches_BlankRefSelectsNothing(t *testing.T) {
	task := Task{ID: "abc", Title: ""}
	assert.False(t, task.Matches(""))
	assert.False(t, task.Matches("   "))
	assert.True(t, task.Matches("AB"))
	assert.False(t, task.Matches("abcd"), "ref longer than id is not a prefix")
}

// Replaying add/done/del against a plain slice must give the persisted result.
func TestStore_PersistedStateMatchesReplay(t *testing.T) {
	s := newTestStore(t)
	var model []Task
	ids := seqIDs()

	add := func(title string, q int) {
		got, err := s.Add(title, q, 5)
		require.NoError(t, err)
		model = append(model, Task{ID: ids(), Title: title, Quadrant: q})
		require.Equal(t, model[len(model)-1].ID, got.ID)
	}
	done := func(ref string) {
		_, _, err := s.Done(ref)
		require.NoError(t, err)
		if i := IndexOf(model, ref); i >= 0 {
			model[i].Done = true
		}
	}
	del := func(ref string) {
		_, err := s.Del(ref)
		require.NoError(t, err)
		kept := model[:0]
		for _, m := range model {
			if !m.Matches(ref) {
				kept = append(kept, m)
			}
		}
		model = kept
	}

	add("alpha", 1)
	add("beta", 2)
	add("Alpha", 3)
	done("ALPHA")
	add("gamma", 4)
	del("beta")
	done("aaaaaa05")
	del("alpha")
	add("delta", 1)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	require.Len(t, onDisk, len(model))
	for i := range model {
		assert.Equal(t, model[i].ID, onDisk[i].ID)
		assert.Equal(t, model[i].Title, onDisk[i].Title)
		assert.Equal(t, model[i].Done, onDisk[i].Done)
	}
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "tasks.yml"))

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(fmt.Sprintf("task %d", i), 1+i%4, i)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	assert.Len(t, onDisk, n)
}

func TestStore_MutationsSeeWritesFromAnotherStore(t *testing.T) {
	s := newTestStore(t)
	first, err := s.Add("Write report", 1, 25)
	require.NoError(t, err)

	other := NewStore(s.Path())
	added, err := other.Add("Added elsewhere", 2, 10)
	require.NoError(t, err)

	found, err := s.Find(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Added elsewhere", found.Title)

	_, ok, err := s.Done(first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	onDisk, err := ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, []string{"Write report", "Added elsewhere"}, titles(onDisk))

	_, err = other.Add("Third", 3, 5)
	require.NoError(t, err)
	removed, err := s.Del("Write report")
	require.NoError(t, err)
	require.Len(t, removed, 1)

	onDisk, err = ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, []string{"Added elsewhere", "Third"}, titles(onDisk))
}
