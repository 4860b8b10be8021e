package vcscore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiffHeadIndexReportsAdded(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	writeFileAt(t, filepath.Join(root, "a.txt"), "hello", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}

	diffs, err := repo.DiffHeadIndex()
	if err != nil {
		t.Fatalf("DiffHeadIndex: %v", err)
	}
	if len(diffs) != 1 || diffs[0] != "a.txt: Added" {
		t.Fatalf("diff --cached = %v, want [a.txt: Added]", diffs)
	}
}

func TestDiffTreesAddedModifiedDeleted(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	writeFileAt(t, filepath.Join(root, "a.txt"), "one", base)
	writeFileAt(t, filepath.Join(root, "b.txt"), "same", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	c1, err := repo.Commit("base")
	if err != nil {
		t.Fatal(err)
	}

	writeFileAt(t, filepath.Join(root, "a.txt"), "two", base.Add(time.Minute))
	if err := os.Remove(filepath.Join(root, "b.txt")); err != nil {
		t.Fatal(err)
	}
	writeFileAt(t, filepath.Join(root, "c.txt"), "new", base.Add(time.Minute))
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	c2, err := repo.Commit("second")
	if err != nil {
		t.Fatal(err)
	}

	diffs, err := repo.diffCommits(c1, c2)
	if err != nil {
		t.Fatalf("diffCommits: %v", err)
	}
	want := map[string]bool{
		"a.txt: Modified": true,
		"b.txt: Deleted":  true,
		"c.txt: Added":    true,
	}
	if len(diffs) != len(want) {
		t.Fatalf("diffs = %v, want %v", diffs, want)
	}
	for _, d := range diffs {
		if !want[d] {
			t.Fatalf("unexpected diff entry %q", d)
		}
	}
}
