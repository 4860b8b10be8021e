package vcscore

import "strings"

// joinIndexPath joins a (possibly empty) index-path prefix with a single
// path component using the internal backslash separator.
func joinIndexPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + `\` + name
}

// BuildTree derives a nested tree object from a flat, ordered list of
// repository-root-relative paths (backslash-separated, as produced by
// Index.ToHashMap), resolving each file's blob hash via resolve.
//
// The paths the index hands back are already root-relative, so stripping
// a common root prefix has nothing left to do by the time it reaches
// here; this implementation skips that step entirely rather than run an
// extra no-op string-trim pass.
func BuildTree(store *ObjectStore, paths []string, resolve func(path string) (Hash, bool)) (Hash, error) {
	return buildTree(store, "", paths, resolve)
}

func buildTree(store *ObjectStore, prefix string, paths []string, resolve func(string) (Hash, bool)) (Hash, error) {
	var fileNames []string
	var dirOrder []string
	seenDir := map[string]bool{}
	dirGroups := map[string][]string{}

	for _, p := range paths {
		if idx := strings.Index(p, `\`); idx >= 0 {
			dirName := p[:idx]
			remainder := p[idx+1:]
			if !seenDir[dirName] {
				seenDir[dirName] = true
				dirOrder = append(dirOrder, dirName)
			}
			dirGroups[dirName] = append(dirGroups[dirName], remainder)
		} else {
			fileNames = append(fileNames, p)
		}
	}

	var entries []TreeEntry
	for _, dirName := range dirOrder {
		childHash, err := buildTree(store, joinIndexPath(prefix, dirName), dirGroups[dirName], resolve)
		if err != nil {
			return "", err
		}
		if childHash.Empty() {
			continue
		}
		entries = append(entries, TreeEntry{Mode: ModeTree, Kind: KindTree, Hash: childHash, Name: dirName})
	}
	for _, name := range fileNames {
		hash, ok := resolve(joinIndexPath(prefix, name))
		if !ok {
			continue
		}
		entries = append(entries, TreeEntry{Mode: ModeFile, Kind: KindBlob, Hash: hash, Name: name})
	}

	payload := EncodeTree(entries)
	if len(payload) <= 2 {
		return "", nil
	}
	return store.Put(KindTree, payload)
}

// DirTree is the in-memory result of recursively parsing a tree object.
type DirTree struct {
	Name       string
	Hash       Hash
	Subdirs    map[string]*DirTree
	FileHashes map[string]Hash
}

// ParseTreeRecursive reads hash and every tree it transitively references,
// assembling the in-memory directory structure. An empty hash yields an
// empty DirTree (the tree builder leaves empty directories unpersisted).
func ParseTreeRecursive(store *ObjectStore, hash Hash, name string) (*DirTree, error) {
	dt := &DirTree{Name: name, Hash: hash, Subdirs: map[string]*DirTree{}, FileHashes: map[string]Hash{}}
	if hash.Empty() {
		return dt, nil
	}
	payload, err := store.Get(hash)
	if err != nil {
		return nil, err
	}
	entries, err := ParseTree(payload)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		switch e.Kind {
		case KindTree:
			child, err := ParseTreeRecursive(store, e.Hash, e.Name)
			if err != nil {
				return nil, err
			}
			dt.Subdirs[e.Name] = child
		case KindBlob:
			dt.FileHashes[e.Name] = e.Hash
		}
	}
	return dt, nil
}

// Flatten projects the directory tree into a flat path→hash map keyed by
// repository-root-relative, backslash-separated paths.
func (dt *DirTree) Flatten(prefix string) map[string]Hash {
	result := make(map[string]Hash)
	for name, h := range dt.FileHashes {
		result[joinIndexPath(prefix, name)] = h
	}
	for name, sub := range dt.Subdirs {
		for p, h := range sub.Flatten(joinIndexPath(prefix, name)) {
			result[p] = h
		}
	}
	return result
}
