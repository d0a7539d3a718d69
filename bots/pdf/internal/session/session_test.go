package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAddTakeRemove(t *testing.T) {
	root := t.TempDir()
	s := New(root, 0)

	for i := 1; i <= 3; i++ {
		n, err := s.Add(7, []byte{byte(i)})
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if n != i {
			t.Fatalf("count = %d, want %d", n, i)
		}
	}

	b, err := s.Take(7)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(b.Files) != 3 {
		t.Fatalf("files = %v", b.Files)
	}
	for i, f := range b.Files {
		if filepath.Dir(f) != filepath.Join(root, "7") || !strings.HasSuffix(f, ".jpg") {
			t.Fatalf("unexpected path %q", f)
		}
		data, err := os.ReadFile(f)
		if err != nil || len(data) != 1 || data[0] != byte(i+1) {
			t.Fatalf("file %d out of order: %v %v", i, data, err)
		}
	}
	if s.Count(7) != 0 {
		t.Fatal("session must end on take")
	}
	if _, err := s.Take(7); !errors.Is(err, ErrEmpty) {
		t.Fatalf("second take = %v, want ErrEmpty", err)
	}

	if err := b.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "7")); !os.IsNotExist(err) {
		t.Fatalf("user dir still present: %v", err)
	}
}

func TestAddRespectsLimit(t *testing.T) {
	s := New(t.TempDir(), 2)
	for i := 0; i < 2; i++ {
		if _, err := s.Add(1, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := s.Add(1, []byte("x")); !errors.Is(err, ErrLimit) || n != 2 {
		t.Fatalf("third add = %d %v", n, err)
	}
	if _, err := s.Add(2, []byte("x")); err != nil {
		t.Fatalf("other users are not limited: %v", err)
	}
}

func TestCancel(t *testing.T) {
	root := t.TempDir()
	s := New(root, 0)
	if n, err := s.Cancel(1); n != 0 || err != nil {
		t.Fatalf("cancel empty = %d %v", n, err)
	}
	_, _ = s.Add(1, []byte("a"))
	_, _ = s.Add(1, []byte("b"))
	n, err := s.Cancel(1)
	if err != nil || n != 2 {
		t.Fatalf("cancel = %d %v", n, err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("leftover entries: %v", entries)
	}
}

func TestPurgeAndConcurrentAdds(t *testing.T) {
	root := t.TempDir()
	s := New(root, 0)
	var wg sync.WaitGroup
	for u := int64(1); u <= 4; u++ {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(u int64) {
				defer wg.Done()
				if _, err := s.Add(u, []byte("img")); err != nil {
					t.Error(err)
				}
			}(u)
		}
	}
	wg.Wait()
	for u := int64(1); u <= 4; u++ {
		if got := s.Count(u); got != 5 {
			t.Fatalf("user %d count = %d", u, got)
		}
	}
	if err := s.Purge(); err != nil {
		t.Fatalf("purge: %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("leftover entries: %v", entries)
	}
}

func TestRemoveKeepsFolderOfNewSession(t *testing.T) {
	root := t.TempDir()
	s := New(root, 0)
	if _, err := s.Add(3, []byte("old")); err != nil {
		t.Fatal(err)
	}
	b, err := s.Take(3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(3, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := b.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	next, err := s.Take(3)
	if err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(next.Files[0]); err != nil || string(data) != "new" {
		t.Fatalf("new session image = %q, %v", data, err)
	}
}

func TestRemoveRacingAdd(t *testing.T) {
	s := New(t.TempDir(), 0)
	const adds = 200
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if b, err := s.Take(9); err == nil {
				if err := b.Remove(); err != nil {
					t.Error(err)
				}
			}
		}
	}()
	for i := 0; i < adds; i++ {
		if _, err := s.Add(9, []byte("img")); err != nil {
			t.Errorf("add %d: %v", i, err)
		}
	}
	close(done)
	wg.Wait()
}
