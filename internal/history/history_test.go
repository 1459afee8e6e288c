package history_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyshare/docview/internal/artifact"
	"github.com/studyshare/docview/internal/filekind"
	"github.com/studyshare/docview/internal/history"
)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()

	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestNewRecord(t *testing.T) {
	art := &artifact.Artifact{
		Name:        "Notes.pdf",
		ContentType: "application/pdf",
		Size:        1024,
	}

	record := history.NewRecord(art)

	if record.ID == uuid.Nil {
		t.Error("record has no ID")
	}

	if record.Kind != filekind.PDF {
		t.Errorf("kind = %v, want PDF", record.Kind)
	}

	if record.Name != "Notes.pdf" || record.Size != 1024 {
		t.Errorf("record fields not carried over: %+v", record)
	}

	if record.CompletedAt.IsZero() {
		t.Error("record has no completion time")
	}
}

func TestSaveAndFind(t *testing.T) {
	store := newTestStore(t)

	record := history.Record{
		ID:          uuid.New(),
		Name:        "Report.docx",
		Kind:        filekind.Word,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:        2048,
		CompletedAt: time.Now().Truncate(time.Millisecond),
	}

	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Find(record.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if got.Name != record.Name || got.Kind != record.Kind || got.Size != record.Size {
		t.Errorf("found record %+v, want %+v", got, record)
	}
}

func TestSaveWithoutID(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(history.Record{Name: "x.pdf"}); err == nil {
		t.Error("expected error saving record without ID")
	}
}

func TestFindMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Find(uuid.New()); !errors.Is(err, history.ErrRecordNotFound) {
		t.Errorf("error = %v, want ErrRecordNotFound", err)
	}
}

func TestFindAllOrdering(t *testing.T) {
	store := newTestStore(t)

	base := time.Now()
	names := []string{"old.pdf", "mid.pdf", "new.pdf"}

	for i, name := range names {
		record := history.Record{
			ID:          uuid.New(),
			Name:        name,
			Kind:        filekind.PDF,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	records, err := store.FindAll()
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := []string{"new.pdf", "mid.pdf", "old.pdf"}
	for i, record := range records {
		if record.Name != want[i] {
			t.Errorf("records[%d] = %q, want %q (most recent first)", i, record.Name, want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	record := history.Record{ID: uuid.New(), Name: "x.pdf", CompletedAt: time.Now()}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(record.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Find(record.ID); !errors.Is(err, history.ErrRecordNotFound) {
		t.Errorf("record still present after delete")
	}

	if err := store.Delete(record.ID); !errors.Is(err, history.ErrRecordNotFound) {
		t.Errorf("second delete error = %v, want ErrRecordNotFound", err)
	}
}
