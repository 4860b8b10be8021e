package vcscore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiffStatus is one of the three outcomes the diff engine reports.
type DiffStatus string

const (
	DiffAdded    DiffStatus = "Added"
	DiffModified DiffStatus = "Modified"
	DiffDeleted  DiffStatus = "Deleted"
)

func formatDiffLine(path string, status DiffStatus) string {
	return fmt.Sprintf("%s: %s", path, status)
}

// headTreeMap resolves HEAD (if any) to its flat path→hash map. A
// branch with no commits yet yields an empty map, not an error.
func headTreeMap(store *ObjectStore, refs *Refs) (map[string]Hash, error) {
	head, err := refs.HeadCommit()
	if err != nil {
		return nil, err
	}
	if head.Empty() {
		return map[string]Hash{}, nil
	}
	payload, err := store.Get(head)
	if err != nil {
		return nil, err
	}
	tree, _, _, err := ParseCommit(payload)
	if err != nil {
		return nil, err
	}
	dt, err := ParseTreeRecursive(store, tree, "")
	if err != nil {
		return nil, err
	}
	return dt.Flatten(""), nil
}

// DiffIndexWorkdir compares the index against the working copy: for each
// indexed path, Deleted if the file is absent; Modified if its recorded
// mtime differs from the filesystem AND re-hashing the current content
// differs from the stored hash. Untracked files are never reported.
func DiffIndexWorkdir(idx *Index, workRoot string) ([]string, error) {
	var out []string
	for _, e := range idx.Entries {
		full := filepath.Join(workRoot, ToOSPath(e.Path))
		info, err := os.Stat(full)
		if os.IsNotExist(err) {
			out = append(out, formatDiffLine(e.Path, DiffDeleted))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("diff index/workdir: stat %s: %w", full, err)
		}
		currentMTime := fmt.Sprintf("%d", info.ModTime().UnixNano())
		if currentMTime == e.MTime {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("diff index/workdir: read %s: %w", full, err)
		}
		if Hash(sha1Hex(EncodeBlob(content))) != e.Hash {
			out = append(out, formatDiffLine(e.Path, DiffModified))
		}
	}
	return out, nil
}

// DiffHeadIndex compares HEAD's tree against the index (what a future
// commit would record).
func DiffHeadIndex(store *ObjectStore, refs *Refs, idx *Index) ([]string, error) {
	treeMap, err := headTreeMap(store, refs)
	if err != nil {
		return nil, err
	}
	idxMap := idx.ToHashMap(true)

	var out []string
	seen := map[string]bool{}
	for _, e := range idx.Entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		th, ok := treeMap[e.Path]
		switch {
		case !ok:
			out = append(out, formatDiffLine(e.Path, DiffAdded))
		case th != e.Hash:
			out = append(out, formatDiffLine(e.Path, DiffModified))
		}
	}
	var deletedOnly []string
	for p := range treeMap {
		if _, ok := idxMap[p]; !ok {
			deletedOnly = append(deletedOnly, p)
		}
	}
	sort.Strings(deletedOnly)
	for _, p := range deletedOnly {
		out = append(out, formatDiffLine(p, DiffDeleted))
	}
	return out, nil
}

// DiffHeadWorkdir compares HEAD's tree against the working copy's current
// content. The index only supplies the set of tracked paths; its recorded
// hashes and mtimes are not consulted.
func DiffHeadWorkdir(store *ObjectStore, refs *Refs, idx *Index, workRoot string) ([]string, error) {
	treeMap, err := headTreeMap(store, refs)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range idx.Entries {
		full := filepath.Join(workRoot, ToOSPath(e.Path))
		if _, err := os.Stat(full); os.IsNotExist(err) {
			out = append(out, formatDiffLine(e.Path, DiffDeleted))
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("diff HEAD/workdir: read %s: %w", full, err)
		}
		currentHash := Hash(sha1Hex(EncodeBlob(content)))
		th, ok := treeMap[e.Path]
		switch {
		case !ok:
			out = append(out, formatDiffLine(e.Path, DiffAdded))
		case th != currentHash:
			out = append(out, formatDiffLine(e.Path, DiffModified))
		}
	}
	return out, nil
}

// DiffTrees compares two arbitrary tree hashes, used by `diff -b <branch>`
// and `diff -c <commit>` to compare the current branch's head against
// another branch's head or an arbitrary commit's tree. Status is reported
// relative to the a→b direction: Added means present in b only, Deleted
// means present in a only, Modified means present in both with differing
// hashes.
func DiffTrees(store *ObjectStore, aTree, bTree Hash) ([]string, error) {
	aDT, err := ParseTreeRecursive(store, aTree, "")
	if err != nil {
		return nil, err
	}
	bDT, err := ParseTreeRecursive(store, bTree, "")
	if err != nil {
		return nil, err
	}
	aMap := aDT.Flatten("")
	bMap := bDT.Flatten("")

	paths := map[string]bool{}
	for p := range aMap {
		paths[p] = true
	}
	for p := range bMap {
		paths[p] = true
	}
	ordered := make([]string, 0, len(paths))
	for p := range paths {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	var out []string
	for _, p := range ordered {
		ah, aok := aMap[p]
		bh, bok := bMap[p]
		switch {
		case aok && !bok:
			out = append(out, formatDiffLine(p, DiffDeleted))
		case !aok && bok:
			out = append(out, formatDiffLine(p, DiffAdded))
		case ah != bh:
			out = append(out, formatDiffLine(p, DiffModified))
		}
	}
	return out, nil
}
