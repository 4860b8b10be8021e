package vcscore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFileAt(t *testing.T, path, content string, when time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

// TestInitAddCommit exercises init, add, and commit end to end.
func TestInitAddCommit(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	writeFileAt(t, filepath.Join(root, "a.txt"), "hello", base)
	writeFileAt(t, filepath.Join(root, "sub", "b.txt"), "world", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commitHash, err := repo.Commit("first")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	wantA := sha1Hex(EncodeBlob([]byte("hello")))
	wantB := sha1Hex(EncodeBlob([]byte("world")))

	if _, err := repo.Store.Get(Hash(wantA)); err != nil {
		t.Fatalf("blob for a.txt not stored under expected hash: %v", err)
	}
	if _, err := repo.Store.Get(Hash(wantB)); err != nil {
		t.Fatalf("blob for sub/b.txt not stored under expected hash: %v", err)
	}

	branchHead, err := repo.Refs.LatestCommitOfBranch("master")
	if err != nil {
		t.Fatalf("LatestCommitOfBranch: %v", err)
	}
	if branchHead != commitHash {
		t.Fatalf("refs/heads/master = %s, want %s", branchHead, commitHash)
	}
}

// TestModifyThenDiff exercises a modify-then-diff cycle against the index.
func TestModifyThenDiff(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	path := filepath.Join(root, "a.txt")
	writeFileAt(t, path, "hello", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("first"); err != nil {
		t.Fatal(err)
	}

	later := base.Add(time.Hour)
	writeFileAt(t, path, "hello!", later)

	diffs, err := repo.DiffIndexWorkdir()
	if err != nil {
		t.Fatalf("DiffIndexWorkdir: %v", err)
	}
	if len(diffs) != 1 || diffs[0] != "a.txt: Modified" {
		t.Fatalf("diff = %v, want [a.txt: Modified]", diffs)
	}

	cached, err := repo.DiffHeadIndex()
	if err != nil {
		t.Fatalf("DiffHeadIndex: %v", err)
	}
	if len(cached) != 0 {
		t.Fatalf("diff --cached = %v, want empty", cached)
	}
}

// TestDeleteThenDiffHead exercises a delete-then-diff-against-HEAD cycle.
func TestDeleteThenDiffHead(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	writeFileAt(t, filepath.Join(root, "a.txt"), "hello", base)
	bPath := filepath.Join(root, "sub", "b.txt")
	writeFileAt(t, bPath, "world", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("first"); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(bPath); err != nil {
		t.Fatal(err)
	}

	diffs, err := repo.DiffHeadWorkdir()
	if err != nil {
		t.Fatalf("DiffHeadWorkdir: %v", err)
	}
	found := false
	for _, d := range diffs {
		if d == `sub\b.txt: Deleted` {
			found = true
		}
	}
	if !found {
		t.Fatalf("diff HEAD = %v, want to contain sub\\b.txt: Deleted", diffs)
	}
}

// TestBranchAndCheckout exercises branch creation and checkout.
func TestBranchAndCheckout(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	writeFileAt(t, filepath.Join(root, "a.txt"), "hello", base)
	writeFileAt(t, filepath.Join(root, "sub", "b.txt"), "world", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("first"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Branch("feat"); err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if err := repo.Checkout("feat"); err != nil {
		t.Fatalf("Checkout feat: %v", err)
	}

	cPath := filepath.Join(root, "c.txt")
	writeFileAt(t, cPath, "c", base.Add(time.Minute))
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("c"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Checkout("master"); err != nil {
		t.Fatalf("Checkout master: %v", err)
	}

	if _, err := os.Stat(cPath); !os.IsNotExist(err) {
		t.Fatalf("c.txt should be absent from workdir after checkout master, stat err = %v", err)
	}
	if err := repo.Index.Load(); err != nil {
		t.Fatal(err)
	}
	for _, e := range repo.Index.Entries {
		if e.Path == "c.txt" {
			t.Fatalf("index should not list c.txt after checkout master")
		}
	}
	branch, ok, err := repo.Refs.CurrentBranch()
	if err != nil || !ok || branch != "master" {
		t.Fatalf("HEAD should resolve to master, got branch=%s ok=%v err=%v", branch, ok, err)
	}
}

// TestFastForwardMerge exercises a fast-forward merge.
func TestFastForwardMerge(t *testing.T) {
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
	if _, err := repo.Commit("first"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Branch("feat"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Checkout("feat"); err != nil {
		t.Fatal(err)
	}

	cPath := filepath.Join(root, "c.txt")
	writeFileAt(t, cPath, "c", base.Add(time.Minute))
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("c"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Checkout("master"); err != nil {
		t.Fatal(err)
	}

	feat, err := repo.Refs.LatestCommitOfBranch("feat")
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := repo.Merge("feat")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if outcome.Classification != "fast-forward" {
		t.Fatalf("classification = %s, want fast-forward", outcome.Classification)
	}
	master, err := repo.Refs.LatestCommitOfBranch("master")
	if err != nil {
		t.Fatal(err)
	}
	if master != feat {
		t.Fatalf("master head = %s, want %s", master, feat)
	}
	if _, err := os.Stat(cPath); err != nil {
		t.Fatalf("expected c.txt to be materialized after fast-forward: %v", err)
	}
}

// TestThreeWayConflict exercises a three-way merge that ends in conflict.
func TestThreeWayConflict(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	xPath := filepath.Join(root, "x.txt")
	writeFileAt(t, xPath, "1", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("base"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Branch("b"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Checkout("b"); err != nil {
		t.Fatal(err)
	}
	writeFileAt(t, xPath, "2", base.Add(time.Minute))
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("on b"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Checkout("master"); err != nil {
		t.Fatal(err)
	}
	writeFileAt(t, xPath, "3", base.Add(2*time.Minute))
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Commit("on master"); err != nil {
		t.Fatal(err)
	}

	before, err := repo.Refs.LatestCommitOfBranch("master")
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := repo.Merge("b")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Merge: err = %v, want wrapping ErrConflict", err)
	}
	if outcome.Classification != "conflict" {
		t.Fatalf("classification = %s, want conflict", outcome.Classification)
	}
	found := false
	for _, c := range outcome.Conflicts {
		if c == "x.txt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("conflicts = %v, want to contain x.txt", outcome.Conflicts)
	}

	after, err := repo.Refs.LatestCommitOfBranch("master")
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Fatalf("master head changed after aborted merge: %s -> %s", before, after)
	}
	content, err := os.ReadFile(xPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "3" {
		t.Fatalf("workdir mutated after aborted merge: x.txt = %q, want \"3\"", content)
	}
}

func TestCatFileStripsHeaderWithDashP(t *testing.T) {
	root := t.TempDir()
	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	h, err := repo.Store.Put(KindBlob, EncodeBlob([]byte("payload")))
	if err != nil {
		t.Fatal(err)
	}
	payload, kind, err := repo.CatFile(string(h))
	if err != nil {
		t.Fatalf("CatFile: %v", err)
	}
	if kind != KindBlob {
		t.Fatalf("kind = %s, want blob", kind)
	}
	stripped, err := DecodeBlob(payload)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if string(stripped) != "payload" {
		t.Fatalf("stripped content = %q, want %q", stripped, "payload")
	}
}

func TestAddOnMissingPathFails(t *testing.T) {
	root := t.TempDir()
	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("does-not-exist.txt"); err == nil {
		t.Fatal("expected error adding a nonexistent path")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	root := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	path := filepath.Join(root, "a.txt")
	writeFileAt(t, path, "hello", base)

	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("."); err != nil {
		t.Fatal(err)
	}
	if err := repo.Index.Load(); err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range repo.Index.Entries {
		if e.Path == "a.txt" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected a single index entry for a.txt after repeated add, got %d", count)
	}
}

func TestInitIsNoOpWhenAlreadyInitialized(t *testing.T) {
	root := t.TempDir()
	repo := Open(root, false)
	if err := repo.Init(); err != nil {
		t.Fatal(err)
	}
	headPath := filepath.Join(repo.GitDir, "HEAD")
	info1, err := os.Stat(headPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	info2, err := os.Stat(headPath)
	if err != nil {
		t.Fatal(err)
	}
	if info1.ModTime() != info2.ModTime() {
		t.Fatal("HEAD was rewritten by a second Init call")
	}
}

func ExampleRepository_lifecycle() {
	root, err := os.MkdirTemp("", "gograph-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(root)

	os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644)
	repo := Open(root, false)
	repo.Init()
	repo.Add(".")
	hash, _ := repo.Commit("first")
	fmt.Println(len(string(hash)) == 40)
	// Output: true
}
