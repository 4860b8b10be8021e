package vcscore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one staged path, keyed in the index by its repository-relative,
// backslash-separated path.
type Entry struct {
	Mode  string
	Hash  Hash
	Stage string
	Path  string
	MTime string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s\x00blob\x00%s\x00%s\x00%s\x00%s", e.Mode, e.Hash, e.Stage, e.Path, e.MTime)
}

func newEntry(path string, hash Hash, mtime string) Entry {
	return Entry{Mode: ModeFile, Hash: hash, Stage: "0", Path: path, MTime: mtime}
}

// Index is the flat staging manifest. Entries preserve on-disk order and
// Upsert keeps paths unique.
type Index struct {
	path    string
	Entries []Entry
}

// NewIndex returns an index bound to the on-disk file at path (normally
// <gitDir>/index), not yet loaded.
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// Load parses the index file. A missing file yields an empty index, not
// an error.
func (idx *Index) Load() error {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		if os.IsNotExist(err) {
			idx.Entries = nil
			return nil
		}
		return fmt.Errorf("load index: %w", err)
	}
	entries, err := parseIndex(string(data))
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	idx.Entries = entries
	return nil
}

func parseIndex(content string) ([]Entry, error) {
	content = strings.TrimSuffix(content, "\x00\n")
	if content == "" {
		return nil, nil
	}
	lines := strings.Split(content, "\n")
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\x00")
		if len(parts) != 6 {
			return nil, fmt.Errorf("malformed index line %q", line)
		}
		entries = append(entries, Entry{
			Mode:  parts[0],
			Hash:  Hash(parts[2]),
			Stage: parts[3],
			Path:  parts[4],
			MTime: parts[5],
		})
	}
	return entries, nil
}

// serialize renders the index's current entries into the on-disk text
// format, which always terminates with a literal "\0\n".
func (idx *Index) serialize() string {
	lines := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n") + "\x00\n"
}

// Save writes the index back to disk.
func (idx *Index) Save() error {
	if err := writeBytes(idx.path, []byte(idx.serialize())); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// Upsert replaces the entry with a matching path, or appends one if none
// exists. Replacing with an entry identical to the one already indexed
// is a no-op. The path match is always exact, never a substring match.
func (idx *Index) Upsert(e Entry) {
	for i := range idx.Entries {
		if idx.Entries[i].Path == e.Path {
			idx.Entries[i] = e
			return
		}
	}
	idx.Entries = append(idx.Entries, e)
}

// Prune removes entries whose path lies under prefixPath and whose
// corresponding working-copy file no longer exists. workRoot is the
// absolute working directory root used to resolve entry paths to disk.
func (idx *Index) Prune(prefixPath, workRoot string) {
	prefix := strings.TrimSuffix(prefixPath, `\`)
	kept := idx.Entries[:0:0]
	for _, e := range idx.Entries {
		underPrefix := prefix == "" || e.Path == prefix || strings.HasPrefix(e.Path, prefix+`\`)
		if underPrefix {
			full := filepath.Join(workRoot, ToOSPath(e.Path))
			if _, err := os.Stat(full); os.IsNotExist(err) {
				continue
			}
		}
		kept = append(kept, e)
	}
	idx.Entries = kept
}

// ToHashMap projects the index to path→hash. When keepFullPath is false,
// the key is the path's final component instead of its full relative path,
// so entries with the same file name in different directories collide.
func (idx *Index) ToHashMap(keepFullPath bool) map[string]Hash {
	m := make(map[string]Hash, len(idx.Entries))
	for _, e := range idx.Entries {
		key := e.Path
		if !keepFullPath {
			key = baseOfIndexPath(e.Path)
		}
		m[key] = e.Hash
	}
	return m
}

// ToHashMTimeMap projects the index to path→(hash, mtime).
func (idx *Index) ToHashMTimeMap(keepFullPath bool) map[string][2]string {
	m := make(map[string][2]string, len(idx.Entries))
	for _, e := range idx.Entries {
		key := e.Path
		if !keepFullPath {
			key = baseOfIndexPath(e.Path)
		}
		m[key] = [2]string{string(e.Hash), e.MTime}
	}
	return m
}

func baseOfIndexPath(p string) string {
	if i := strings.LastIndex(p, `\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
