package drive

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/skillmesh/core"
)

// Interface compliance (compile-time assertions)
var _ core.Drive = (*InMemoryDrive)(nil)

func TestInMemoryDrive_WriteReadIsolation(t *testing.T) {
	d := NewInMemoryDrive()
	value := map[string]any{"k": "hello"}
	if err := d.Write("notes/a", value); err != nil {
		t.Fatalf("write: %v", err)
	}
	// mutate original value after write
	value["k"] = "mutated"
	out, err := d.Read("notes/a")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok || m["k"] != "hello" { // should not reflect mutation
		t.Fatalf("expected stored value isolated, got %v", out)
	}
}

func TestInMemoryDrive_RejectsNonSerializable(t *testing.T) {
	d := NewInMemoryDrive()
	if err := d.Write("bad", func() {}); err == nil {
		t.Fatal("expected error for non-serializable value")
	}
}

func TestInMemoryDrive_ListAndDelete(t *testing.T) {
	d := NewInMemoryDrive()
	if err := d.Write("a/1", 1); err != nil {
		t.Fatal(err)
	}
	if err := d.Write("a/2", 2); err != nil {
		t.Fatal(err)
	}
	if err := d.Write("b/1", 3); err != nil {
		t.Fatal(err)
	}

	paths, err := d.List("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "a/1" || paths[1] != "a/2" {
		t.Fatalf("unexpected paths: %v", paths)
	}

	all, _ := d.List("")
	if len(all) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(all))
	}

	if err := d.Delete("a/1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := d.Read("a/1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := d.Delete("a/1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestInMemoryDrive_Scope(t *testing.T) {
	d := NewInMemoryDrive()
	run := d.Scope("sessions", "s1").Scope("runs", "r1")

	if err := run.Write("state/x", "value"); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Visible at the backing drive under the full path.
	out, err := d.Read("sessions/s1/runs/r1/state/x")
	if err != nil || out != "value" {
		t.Fatalf("expected value at full path, got %v (%v)", out, err)
	}

	// List through the scope is relative to it.
	paths, err := run.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != "state/x" {
		t.Fatalf("unexpected scoped paths: %v", paths)
	}

	// Sibling scopes do not observe each other.
	other := d.Scope("sessions", "s1", "runs", "r2")
	if _, err := other.Read("state/x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound in sibling scope, got %v", err)
	}
}

func TestInMemoryDrive_Concurrency(t *testing.T) {
	d := NewInMemoryDrive()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := fmt.Sprintf("k%d", i%10)
			if err := d.Write(p, i); err != nil {
				t.Errorf("write err: %v", err)
			}
			_, _ = d.List("")
		}()
	}
	wg.Wait()
	paths, err := d.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 10 {
		t.Fatalf("expected 10 paths, got %d", len(paths))
	}
}
