package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/kpe/internal/docfreq"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "docfreq.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSaveAndLatest(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first := docfreq.NewTable()
	first.TotalDocuments = 2
	first.Set("cancer", 1)

	second := docfreq.NewTable()
	second.TotalDocuments = 9
	second.Set("therapy", 1)
	second.Set("cancer", 3)
	second.Set("gene expression", 2)

	if _, err := st.Save(ctx, "en", first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	id, err := st.Save(ctx, "en", second)
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty id")
	}

	got, err := st.Latest(ctx, "en")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !got.Equal(second) {
		t.Errorf("Latest = %+v, want %+v", got, second)
	}
	if strings.Join(got.Terms(), "|") != "therapy|cancer|gene expression" {
		t.Errorf("Latest order = %v", got.Terms())
	}

	snaps, err := st.Snapshots(ctx, "en")
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("Snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].ID != id || snaps[0].Terms != 3 || snaps[0].TotalDocuments != 9 {
		t.Errorf("newest snapshot = %+v", snaps[0])
	}
}

func TestEmptyTableSnapshot(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	id, err := st.Save(ctx, "fr", docfreq.NewTable())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TotalDocuments != 0 || got.Len() != 0 {
		t.Errorf("Load = %+v, want empty", got)
	}
}

func TestLatestMissing(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Latest(context.Background(), "de"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Latest error = %v, want ErrNoSnapshot", err)
	}
	if _, err := st.Load(context.Background(), "missing"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load error = %v, want ErrNoSnapshot", err)
	}
}

func TestSchemaIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docfreq.db")
	for i := 0; i < 3; i++ {
		st, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open iteration %d: %v", i, err)
		}
		st.Close()
	}
}
