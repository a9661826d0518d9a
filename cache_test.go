package gilbertmoore

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	abc := []byte("A 0.5\nB 0.25\nC 0.25\n")

	a, err := c.Table(abc)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	b, err := c.Table(append([]byte(nil), abc...))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if a != b {
		t.Errorf("same source built twice")
	}

	d, err := c.Load("testdata/digits.txt")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if d == a || d.Len() != 10 {
		t.Errorf("wrong table for digits.txt: %d symbols", d.Len())
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	// A third table evicts the least recently used one, abc.
	if _, err := c.Load("testdata/text.txt"); err != nil {
		t.Fatalf("%+v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	e, err := c.Table(abc)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if e == a {
		t.Errorf("evicted table returned")
	}
}

func TestCacheFailure(t *testing.T) {
	c, err := NewCache(4)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := c.Table([]byte("A 0.5\nB 0.4\n")); errors.Cause(err) != ErrProbabilitySumMismatch {
		t.Errorf("got %v, want %v", err, ErrProbabilitySumMismatch)
	}
	if c.Len() != 0 {
		t.Errorf("failed build cached")
	}
	if _, err := c.Load("testdata/does_not_exist.txt"); err == nil {
		t.Errorf("expected error for missing file")
	}
	if _, err := NewCache(0); err == nil {
		t.Errorf("expected error for size 0")
	}
}

func TestCacheConcurrent(t *testing.T) {
	c, err := NewCache(1)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ct, err := c.Load("testdata/text.txt")
			if err != nil {
				t.Errorf("%+v", err)
				return
			}
			if ct.Len() != 18 {
				t.Errorf("%d symbols", ct.Len())
			}
		}()
	}
	wg.Wait()
}

func TestLoadCodeTableShared(t *testing.T) {
	a, err := LoadCodeTable("testdata/digits.txt")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	b, err := LoadCodeTable("testdata/digits.txt")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if a != b {
		t.Errorf("digits.txt built twice")
	}
	if _, err := LoadCodeTable("testdata/does_not_exist.txt"); err == nil {
		t.Errorf("expected error for missing file")
	}
}
