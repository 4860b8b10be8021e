package vcscore

import (
	"fmt"
	"path/filepath"
	"sort"
)

// MergeOutcome reports what Merge decided and did.
type MergeOutcome struct {
	// Classification is one of "no-op", "fast-forward", "merged", or
	// "conflict".
	Classification string
	// Conflicts lists the conflicting paths when Classification is
	// "conflict"; empty otherwise.
	Conflicts []string
	// Commit is the new merge commit's hash when Classification is
	// "merged", or the target branch's head commit when Classification is
	// "fast-forward" (which advances the branch ref directly without
	// creating a new commit). It is empty otherwise.
	Commit Hash
}

// Merge classifies the relationship between the current branch and
// targetBranch, then either no-ops, fast-forwards, or performs a
// three-way reconciliation and merge commit.
func Merge(store *ObjectStore, refs *Refs, idx *Index, workRoot, targetBranch string) (*MergeOutcome, error) {
	current, ok, err := refs.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no branch currently checked out: %w", ErrPrecondition)
	}
	if targetBranch == current {
		return nil, fmt.Errorf("cannot merge a branch into itself: %w", ErrPrecondition)
	}
	if !refs.BranchExists(targetBranch) {
		return nil, fmt.Errorf("the provided branch name does not exist: %w", ErrPrecondition)
	}

	if diffs, err := DiffIndexWorkdir(idx, workRoot); err != nil {
		return nil, err
	} else if len(diffs) > 0 {
		return nil, fmt.Errorf("pending changes between index and working copy: %w", ErrPrecondition)
	}
	if diffs, err := DiffHeadIndex(store, refs, idx); err != nil {
		return nil, err
	} else if len(diffs) > 0 {
		return nil, fmt.Errorf("pending changes between HEAD and index: %w", ErrPrecondition)
	}

	target, err := refs.LatestCommitOfBranch(targetBranch)
	if err != nil {
		return nil, err
	}
	current_, err := refs.HeadCommit()
	if err != nil {
		return nil, err
	}

	if target == current_ {
		return &MergeOutcome{Classification: "no-op"}, nil
	}

	ancestorsC := AncestorSet(store, current_)
	if ancestorsC[target] {
		return &MergeOutcome{Classification: "no-op"}, nil
	}

	visitedT := map[Hash]bool{}
	ancTNode := Ancestors(store, target, visitedT)
	ancestorsTList := Flatten(ancTNode)
	ancestorsTSet := map[Hash]bool{}
	for _, h := range ancestorsTList {
		ancestorsTSet[h] = true
	}

	if ancestorsTSet[current_] {
		// Fast-forward: target is a descendant of current.
		oldTree, err := resolveCommitTree(store, current_)
		if err != nil {
			return nil, err
		}
		newTree, err := resolveCommitTree(store, target)
		if err != nil {
			return nil, err
		}
		if err := refs.SetLatestOfCurrentBranch(target); err != nil {
			return nil, err
		}
		if err := applyTreeSwap(store, idx, workRoot, oldTree, newTree); err != nil {
			return nil, err
		}
		return &MergeOutcome{Classification: "fast-forward", Commit: target}, nil
	}

	var commonAncestor Hash
	for _, h := range ancestorsTList {
		if ancestorsC[h] {
			commonAncestor = h
			break
		}
	}
	if commonAncestor.Empty() {
		return nil, fmt.Errorf("no common ancestor between %q and current branch", targetBranch)
	}

	tTree, err := resolveCommitTree(store, target)
	if err != nil {
		return nil, err
	}
	cTree, err := resolveCommitTree(store, current_)
	if err != nil {
		return nil, err
	}
	aTree, err := resolveCommitTree(store, commonAncestor)
	if err != nil {
		return nil, err
	}

	tDT, err := ParseTreeRecursive(store, tTree, "")
	if err != nil {
		return nil, err
	}
	cDT, err := ParseTreeRecursive(store, cTree, "")
	if err != nil {
		return nil, err
	}
	aDT, err := ParseTreeRecursive(store, aTree, "")
	if err != nil {
		return nil, err
	}
	ti := tDT.Flatten("")
	ci := cDT.Flatten("")
	ai := aDT.Flatten("")

	paths := map[string]bool{}
	for p := range ti {
		paths[p] = true
	}
	for p := range ci {
		paths[p] = true
	}
	for p := range ai {
		paths[p] = true
	}

	var conflicts []string
	deletions := map[string]bool{}
	resolved := map[string]Hash{}

	for p := range paths {
		aVal, aOK := ai[p]
		cVal, cOK := ci[p]
		tVal, tOK := ti[p]

		switch {
		case aOK && !cOK && !tOK:
			deletions[p] = true
		case aOK && !cOK && tOK:
			if tVal == aVal {
				deletions[p] = true
			} else {
				conflicts = append(conflicts, p)
			}
		case aOK && cOK && !tOK:
			if cVal == aVal {
				deletions[p] = true
			} else {
				conflicts = append(conflicts, p)
			}
		case aOK && cOK && tOK:
			switch {
			case tVal == cVal && tVal != aVal:
				resolved[p] = tVal
			case aVal == tVal:
				resolved[p] = cVal
			case aVal == cVal:
				resolved[p] = tVal
			default:
				conflicts = append(conflicts, p)
			}
		case !aOK && cOK:
			if !tOK || tVal == cVal {
				resolved[p] = cVal
			} else {
				conflicts = append(conflicts, p)
			}
		case !aOK && !cOK && tOK:
			// T only, not A, not C: taken from T rather than dropped.
			resolved[p] = tVal
		}
	}

	sort.Strings(conflicts)
	if len(conflicts) > 0 {
		return &MergeOutcome{Classification: "conflict", Conflicts: conflicts},
			fmt.Errorf("%d conflicting path(s): %w", len(conflicts), ErrConflict)
	}

	for p := range deletions {
		full := filepath.Join(workRoot, ToOSPath(p))
		if err := deleteIfExists(full); err != nil {
			return nil, err
		}
	}

	resolvedPaths := make([]string, 0, len(resolved))
	for p := range resolved {
		resolvedPaths = append(resolvedPaths, p)
	}
	sort.Strings(resolvedPaths)
	for _, p := range resolvedPaths {
		hash := resolved[p]
		payload, err := store.Get(hash)
		if err != nil {
			return nil, err
		}
		content, err := DecodeBlob(payload)
		if err != nil {
			return nil, err
		}
		full := filepath.Join(workRoot, ToOSPath(p))
		if err := writeBytes(full, content); err != nil {
			return nil, err
		}
		mtime, err := mtimeOf(full)
		if err != nil {
			return nil, err
		}
		idx.Upsert(newEntry(p, hash, mtime))
	}
	for p := range deletions {
		idx.Prune(p, workRoot)
	}
	if err := idx.Save(); err != nil {
		return nil, err
	}

	rootPaths := make([]string, 0, len(idx.Entries))
	resolveFn := idx.ToHashMap(true)
	for _, e := range idx.Entries {
		rootPaths = append(rootPaths, e.Path)
	}
	newTreeHash, err := BuildTree(store, rootPaths, func(p string) (Hash, bool) {
		h, ok := resolveFn[p]
		return h, ok
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Merge commit from %s to current branch", targetBranch)
	commitHash, err := WriteCommit(store, refs, newTreeHash, message, target)
	if err != nil {
		return nil, err
	}

	return &MergeOutcome{Classification: "merged", Commit: commitHash}, nil
}
