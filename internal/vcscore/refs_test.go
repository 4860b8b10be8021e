package vcscore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRefsInitHeadIsSymbolic(t *testing.T) {
	gitDir := t.TempDir()
	refs := NewRefs(gitDir)
	if err := refs.InitHead("master"); err != nil {
		t.Fatal(err)
	}
	branch, ok, err := refs.CurrentBranch()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || branch != "master" {
		t.Fatalf("branch=%s ok=%v, want master/true", branch, ok)
	}
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `ref: refs\heads\master` {
		t.Fatalf("HEAD content = %q", data)
	}
}

func TestRefsCreateBranchFailsIfExists(t *testing.T) {
	gitDir := t.TempDir()
	refs := NewRefs(gitDir)
	if err := refs.InitHead("master"); err != nil {
		t.Fatal(err)
	}
	if err := refs.SetLatestOfCurrentBranch("deadbeef"); err != nil {
		t.Fatal(err)
	}
	if err := refs.CreateBranch("feat"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := refs.CreateBranch("feat"); err == nil {
		t.Fatal("expected error creating a branch that already exists")
	}
}

func TestRefsCreateBranchFailsWithNoCurrentBranch(t *testing.T) {
	gitDir := t.TempDir()
	refs := NewRefs(gitDir)
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := refs.CreateBranch("feat"); err == nil {
		t.Fatal("expected error creating a branch while HEAD is detached")
	}
}

func TestRefsBranchExists(t *testing.T) {
	gitDir := t.TempDir()
	refs := NewRefs(gitDir)
	if refs.BranchExists("master") {
		t.Fatal("master should not exist before any ref is written")
	}
	if err := refs.SetBranchHead("master", "deadbeef"); err != nil {
		t.Fatal(err)
	}
	if !refs.BranchExists("master") {
		t.Fatal("master should exist after SetBranchHead")
	}
}
