package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func insertWidget(t *testing.T, s *store.Store, name string) widget {
	t.Helper()
	var out widget
	err := s.Update(func(tx *store.Tx) error {
		var err error
		out, err = store.Insert(tx, "widgets", widget{Name: name})
		return err
	})
	require.NoError(t, err)
	return out
}

func TestStore_InsertAssignsMaxPlusOne(t *testing.T) {
	s := store.NewMemory()

	first := insertWidget(t, s, "a")
	second := insertWidget(t, s, "b")
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	// Deleting the max id lets the next insert reuse it.
	require.NoError(t, s.Update(func(tx *store.Tx) error {
		return store.Delete(tx, "widgets", second.ID)
	}))
	third := insertWidget(t, s, "c")
	assert.Equal(t, 2, third.ID)
}

func TestStore_InsertIgnoresCallerID(t *testing.T) {
	s := store.NewMemory()
	var got widget
	require.NoError(t, s.Update(func(tx *store.Tx) error {
		var err error
		got, err = store.Insert(tx, "widgets", widget{ID: 42, Name: "x"})
		return err
	}))
	assert.Equal(t, 1, got.ID)
}

func TestStore_PatchAndNotFound(t *testing.T) {
	s := store.NewMemory()
	w := insertWidget(t, s, "a")

	var patched widget
	require.NoError(t, s.Update(func(tx *store.Tx) error {
		var err error
		patched, err = store.Patch[widget](tx, "widgets", w.ID, map[string]any{"count": 7, "id": 99})
		return err
	}))
	assert.Equal(t, w.ID, patched.ID)
	assert.Equal(t, "a", patched.Name)
	assert.Equal(t, 7, patched.Count)

	err := s.Update(func(tx *store.Tx) error {
		_, err := store.Patch[widget](tx, "widgets", 1000, map[string]any{"count": 1})
		return err
	})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = s.Update(func(tx *store.Tx) error {
		return store.Delete(tx, "widgets", 1000)
	})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestStore_PatchRejectsWrongShape(t *testing.T) {
	s := store.NewMemory()
	w := insertWidget(t, s, "a")

	err := s.Update(func(tx *store.Tx) error {
		_, err := store.Patch[widget](tx, "widgets", w.ID, map[string]any{"count": "many"})
		return err
	})
	assert.Error(t, err)

	require.NoError(t, s.View(func(tx *store.Tx) error {
		got, err := store.Get[widget](tx, "widgets", w.ID)
		assert.Equal(t, 0, got.Count)
		return err
	}))
}

func TestStore_FindAndFilter(t *testing.T) {
	s := store.NewMemory()
	insertWidget(t, s, "a")
	insertWidget(t, s, "b")
	insertWidget(t, s, "a")

	require.NoError(t, s.View(func(tx *store.Tx) error {
		all, err := store.All[widget](tx, "widgets")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		as, err := store.Filter(tx, "widgets", func(w widget) bool { return w.Name == "a" })
		require.NoError(t, err)
		assert.Len(t, as, 2)

		b, ok, err := store.Find(tx, "widgets", func(w widget) bool { return w.Name == "b" })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, b.ID)

		_, ok, err = store.Find(tx, "widgets", func(w widget) bool { return w.Name == "z" })
		require.NoError(t, err)
		assert.False(t, ok)

		empty, err := store.All[widget](tx, "missing")
		require.NoError(t, err)
		assert.Empty(t, empty)
		return nil
	}))
}

func TestStore_DeleteWhere(t *testing.T) {
	s := store.NewMemory()
	insertWidget(t, s, "a")
	insertWidget(t, s, "b")
	insertWidget(t, s, "a")

	var removed int
	require.NoError(t, s.Update(func(tx *store.Tx) error {
		var err error
		removed, err = store.DeleteWhere(tx, "widgets", func(w widget) bool { return w.Name == "a" })
		return err
	}))
	assert.Equal(t, 2, removed)
	require.NoError(t, s.View(func(tx *store.Tx) error {
		assert.Equal(t, 1, tx.Len("widgets"))
		return nil
	}))
}

func TestStore_ViewIsReadOnly(t *testing.T) {
	s := store.NewMemory()
	err := s.View(func(tx *store.Tx) error {
		_, err := store.Insert(tx, "widgets", widget{Name: "a"})
		return err
	})
	assert.ErrorIs(t, err, store.ErrReadOnly)
}

func TestStore_FailedUpdateRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := store.Open(path)
	require.NoError(t, err)
	insertWidget(t, s, "a")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Update(func(tx *store.Tx) error {
		if _, err := store.Insert(tx, "widgets", widget{Name: "b"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.View(func(tx *store.Tx) error {
		assert.Equal(t, 1, tx.Len("widgets"))
		return nil
	}))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := store.Open(path)
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "file is created lazily")

	insertWidget(t, s, "persisted")

	reopened, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, reopened.View(func(tx *store.Tx) error {
		w, err := store.Get[widget](tx, "widgets", 1)
		require.NoError(t, err)
		assert.Equal(t, "persisted", w.Name)
		return nil
	}))
}

func TestStore_OpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := store.Open(path)
	assert.Error(t, err)
}
