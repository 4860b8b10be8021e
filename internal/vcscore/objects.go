package vcscore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ObjectStore persists and retrieves content-addressed blob, tree, and
// commit objects under <gitDir>/objects.
type ObjectStore struct {
	gitDir string
}

// NewObjectStore returns a store rooted at gitDir (the repository metadata
// directory, e.g. ".git" or the working directory root for a bare repo).
func NewObjectStore(gitDir string) *ObjectStore {
	return &ObjectStore{gitDir: gitDir}
}

func (s *ObjectStore) objectsDir() string {
	return filepath.Join(s.gitDir, "objects")
}

func (s *ObjectStore) pathFor(h Hash) (string, error) {
	dir, rest, err := splitHashedPath(h)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.objectsDir(), dir, rest), nil
}

// Put computes the hash of payload (which already carries its kind
// header), deflates it, and writes it to disk; kind is used only in error
// messages. It is idempotent: an existing object file is never rewritten.
func (s *ObjectStore) Put(kind Kind, payload []byte) (Hash, error) {
	h := Hash(sha1Hex(payload))
	path, err := s.pathFor(h)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return h, nil
	}
	compressed, err := deflate(payload)
	if err != nil {
		return "", fmt.Errorf("put %s object: %w", kind, err)
	}
	if err := writeBytes(path, compressed); err != nil {
		return "", fmt.Errorf("put %s object: %w", kind, err)
	}
	return h, nil
}

// Get reads and inflates the object addressed by h.
func (s *ObjectStore) Get(h Hash) ([]byte, error) {
	path, err := s.pathFor(h)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", h, err)
	}
	result := inflate(raw)
	return result.Payload, nil
}

// PrefixLookup resolves a (possibly abbreviated) hash prefix to the first
// object file in objects/<prefix[:2]> whose remainder starts with
// prefix[2:], returning the full hash. An ambiguous prefix is not reported
// as an error. Used by cat-file.
func (s *ObjectStore) PrefixLookup(prefix string) (Hash, error) {
	if len(prefix) < 3 {
		return "", fmt.Errorf("prefix %q too short: %w", prefix, ErrPrecondition)
	}
	dir := filepath.Join(s.objectsDir(), prefix[:2])
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("prefix lookup %s: %w", prefix, ErrNotFound)
	}
	remainder := prefix[2:]
	for _, e := range entries {
		if hasPrefix(e.Name(), remainder) {
			return Hash(prefix[:2] + e.Name()), nil
		}
	}
	return "", fmt.Errorf("prefix lookup %s: %w", prefix, ErrNotFound)
}

// --- blob payload ---

// EncodeBlob wraps raw file content with the "blob\0<len>\0" header.
func EncodeBlob(content []byte) []byte {
	header := fmt.Sprintf("blob\x00%d\x00", len(content))
	return append([]byte(header), content...)
}

// DecodeBlob strips the "blob\0<len>\0" header, returning the raw content.
func DecodeBlob(payload []byte) ([]byte, error) {
	idx := strings.IndexByte(string(payload), 0)
	if idx < 0 {
		return nil, fmt.Errorf("decode blob: missing header")
	}
	if string(payload[:idx]) != "blob" {
		return nil, fmt.Errorf("decode blob: not a blob payload")
	}
	rest := payload[idx+1:]
	idx2 := strings.IndexByte(string(rest), 0)
	if idx2 < 0 {
		return nil, fmt.Errorf("decode blob: missing length field")
	}
	n, err := strconv.Atoi(string(rest[:idx2]))
	if err != nil {
		return nil, fmt.Errorf("decode blob: bad length field: %w", err)
	}
	content := rest[idx2+1:]
	if len(content) != n {
		// Tolerate a length mismatch rather than fail outright; return
		// whatever content bytes are present.
		return content, nil
	}
	return content, nil
}

// --- tree payload ---

// TreeEntry is one line of a tree object's payload.
type TreeEntry struct {
	Mode string
	Kind Kind
	Hash Hash
	Name string
}

func (e TreeEntry) String() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s", e.Mode, e.Kind, e.Hash, e.Name)
}

// EncodeTree serializes entries in the order given (insertion order; the
// format requires no further sort).
func EncodeTree(entries []TreeEntry) []byte {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return []byte(strings.Join(lines, "\n"))
}

// ParseTree parses a tree object's payload back into its entries.
func ParseTree(payload []byte) ([]TreeEntry, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var entries []TreeEntry
	scanner := bufio.NewScanner(strings.NewReader(string(payload)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\x00")
		if len(parts) != 4 {
			return nil, fmt.Errorf("parse tree: malformed entry %q", line)
		}
		entries = append(entries, TreeEntry{
			Mode: parts[0],
			Kind: Kind(parts[1]),
			Hash: Hash(parts[2]),
			Name: parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	return entries, nil
}

// --- commit payload ---

// EncodeCommit serializes a commit payload per §3: a tree line, zero/one/two
// parent lines, then a single-quoted message with no trailing newline.
func EncodeCommit(tree Hash, parents []Hash, message string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "tree\x00%s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&b, "parent\x00%s\n", p)
	}
	fmt.Fprintf(&b, "'%s'", message)
	return []byte(b.String())
}

// ParseCommit parses a commit payload back into its tree, parents, and
// message.
func ParseCommit(payload []byte) (tree Hash, parents []Hash, message string, err error) {
	lines := strings.Split(string(payload), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "tree\x00") {
		return "", nil, "", fmt.Errorf("parse commit: missing tree line")
	}
	tree = Hash(strings.TrimPrefix(lines[0], "tree\x00"))
	i := 1
	for i < len(lines) && strings.HasPrefix(lines[i], "parent\x00") {
		parents = append(parents, Hash(strings.TrimPrefix(lines[i], "parent\x00")))
		i++
	}
	rest := strings.Join(lines[i:], "\n")
	rest = strings.TrimPrefix(rest, "'")
	rest = strings.TrimSuffix(rest, "'")
	message = rest
	return tree, parents, message, nil
}
