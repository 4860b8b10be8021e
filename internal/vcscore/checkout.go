package vcscore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolveCommitTree returns the root tree hash for a commit, or "" if the
// commit is empty (a branch with no commits yet).
func resolveCommitTree(store *ObjectStore, commit Hash) (Hash, error) {
	if commit.Empty() {
		return "", nil
	}
	payload, err := store.Get(commit)
	if err != nil {
		return "", err
	}
	tree, _, _, err := ParseCommit(payload)
	if err != nil {
		return "", err
	}
	return tree, nil
}

// Checkout switches the working copy, index, and HEAD from the current
// branch to branchName.
func Checkout(store *ObjectStore, refs *Refs, idx *Index, workRoot, branchName string) error {
	if !refs.BranchExists(branchName) {
		return fmt.Errorf("the provided branch name does not exist: %w", ErrPrecondition)
	}
	if current, ok, err := refs.CurrentBranch(); err != nil {
		return err
	} else if ok && current == branchName {
		return fmt.Errorf("branch %q is already checked out: %w", branchName, ErrPrecondition)
	}

	if diffs, err := DiffIndexWorkdir(idx, workRoot); err != nil {
		return err
	} else if len(diffs) > 0 {
		return fmt.Errorf("pending changes between index and working copy: %w", ErrPrecondition)
	}
	if diffs, err := DiffHeadIndex(store, refs, idx); err != nil {
		return err
	} else if len(diffs) > 0 {
		return fmt.Errorf("pending changes between HEAD and index: %w", ErrPrecondition)
	}

	newCommit, err := refs.LatestCommitOfBranch(branchName)
	if err != nil {
		return err
	}
	oldCommit, err := refs.HeadCommit()
	if err != nil {
		return err
	}

	newTree, err := resolveCommitTree(store, newCommit)
	if err != nil {
		return err
	}
	oldTree, err := resolveCommitTree(store, oldCommit)
	if err != nil {
		return err
	}

	if err := applyTreeSwap(store, idx, workRoot, oldTree, newTree); err != nil {
		return err
	}

	return refs.SetHeadToBranch(branchName)
}

// applyTreeSwap implements steps 3-5 of checkout: delete every file listed
// in oldTree from the working copy (removing now-empty directories
// bottom-up), materialize every blob in newTree, and rewrite the index as
// the flat projection of newTree. It does not touch HEAD or branch refs,
// so it is reusable by both Checkout and Merge's fast-forward path.
func applyTreeSwap(store *ObjectStore, idx *Index, workRoot string, oldTree, newTree Hash) error {
	oldDT, err := ParseTreeRecursive(store, oldTree, "")
	if err != nil {
		return err
	}
	oldMap := oldDT.Flatten("")

	dirSet := map[string]bool{}
	for p := range oldMap {
		full := filepath.Join(workRoot, ToOSPath(p))
		if err := deleteIfExists(full); err != nil {
			return err
		}
		for dir := filepath.Dir(full); dir != workRoot && strings.HasPrefix(dir, workRoot); dir = filepath.Dir(dir) {
			dirSet[dir] = true
		}
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		os.Remove(d)
	}

	newDT, err := ParseTreeRecursive(store, newTree, "")
	if err != nil {
		return err
	}
	newMap := newDT.Flatten("")

	var entries []Entry
	paths := make([]string, 0, len(newMap))
	for p := range newMap {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		hash := newMap[p]
		payload, err := store.Get(hash)
		if err != nil {
			return err
		}
		content, err := DecodeBlob(payload)
		if err != nil {
			return err
		}
		full := filepath.Join(workRoot, ToOSPath(p))
		if err := writeBytes(full, content); err != nil {
			return err
		}
		mtime, err := mtimeOf(full)
		if err != nil {
			return err
		}
		entries = append(entries, newEntry(p, hash, mtime))
	}
	idx.Entries = entries
	return idx.Save()
}
