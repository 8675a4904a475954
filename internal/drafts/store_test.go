package drafts

import (
	"database/sql"
	"errors"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndList(t *testing.T) {
	s := testStore(t)

	first, err := s.Save("hello-world", "draft one", 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Save("hello-world", "draft two", 42); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != first.ID {
		t.Error("oldest draft must come first")
	}
	if list[1].ReplyToUserID != 42 {
		t.Errorf("replyTo = %d, want 42", list[1].ReplyToUserID)
	}
}

func TestGetAndDelete(t *testing.T) {
	s := testStore(t)

	d, err := s.Save("slug", "text", 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != "text" || got.PostSlug != "slug" {
		t.Errorf("got %+v", got)
	}

	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(d.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows after delete, got %v", err)
	}
	if err := s.Delete(d.ID); err == nil {
		t.Error("deleting a missing draft should error")
	}
}
