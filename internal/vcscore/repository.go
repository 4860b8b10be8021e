package vcscore

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultBranch = "master"

const configContent = `[core]
  repositoryformatversion = 0
  filemode = false
  bare = false
  logallrefupdates = true
  symlinks = false
  ignorecase = true
  hideDotFiles = dotGitOnly
`

const descriptionPlaceholder = "Unnamed repository; edit this file 'description' to name the repository.\n"
const excludePlaceholder = "# lines starting with '#' are comments\n"

// Repository is the handle threaded through every high-level operation,
// replacing a global current-directory variable with an explicit value:
// every method call is self-contained and nothing here is process-global.
type Repository struct {
	WorkDir string
	GitDir  string
	Bare    bool

	Store *ObjectStore
	Refs  *Refs
	Index *Index
}

// Open resolves a Repository rooted at workDir, whose metadata directory
// is ".git" unless bare is true (in which case metadata lives at workDir
// itself). It does not require the repository to already exist on disk;
// callers use Init to create it.
func Open(workDir string, bare bool) *Repository {
	gitDir := workDir
	if !bare {
		gitDir = filepath.Join(workDir, ".git")
	}
	return &Repository{
		WorkDir: workDir,
		GitDir:  gitDir,
		Bare:    bare,
		Store:   NewObjectStore(gitDir),
		Refs:    NewRefs(gitDir),
		Index:   NewIndex(filepath.Join(gitDir, "index")),
	}
}

// Init creates the repository layout under WorkDir. It is a no-op if HEAD
// already exists.
func (r *Repository) Init() error {
	headPath := filepath.Join(r.GitDir, "HEAD")
	if _, err := os.Stat(headPath); err == nil {
		return nil
	}

	dirs := []string{"branches", "hooks", "info", "logs", "refs/heads", "refs/tags"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(r.GitDir, d), 0o755); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	if !r.Bare {
		for _, d := range []string{"objects/info", "objects/pack"} {
			if err := os.MkdirAll(filepath.Join(r.GitDir, d), 0o755); err != nil {
				return fmt.Errorf("init: %w", err)
			}
		}
	} else if err := os.MkdirAll(filepath.Join(r.GitDir, "objects"), 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := writeBytes(filepath.Join(r.GitDir, "config"), []byte(configContent)); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := writeBytes(filepath.Join(r.GitDir, "description"), []byte(descriptionPlaceholder)); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := writeBytes(filepath.Join(r.GitDir, "info", "exclude"), []byte(excludePlaceholder)); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	return r.Refs.InitHead(defaultBranch)
}

// rootDirName is the repository's own top-level directory name. Nothing
// calls it: BuildTree skips the root-prefix step (see tree.go), so it
// plays no role in hashing.
func (r *Repository) rootDirName() string {
	return filepath.Base(r.WorkDir)
}

// Add stages pathArg (a file, a directory, or "." for the whole working
// copy) into the index. It errors if pathArg resolves to nothing on disk.
func (r *Repository) Add(pathArg string) error {
	if err := r.Index.Load(); err != nil {
		return err
	}

	target := r.WorkDir
	if pathArg != "." && pathArg != "" {
		target = filepath.Join(r.WorkDir, pathArg)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("invalid file(s): cannot add to git: %w", ErrPrecondition)
	}

	stage := func(full string) error {
		content, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("add %s: %w", full, err)
		}
		hash, err := r.Store.Put(KindBlob, EncodeBlob(content))
		if err != nil {
			return fmt.Errorf("add %s: %w", full, err)
		}
		mtime, err := mtimeOf(full)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(r.WorkDir, full)
		if err != nil {
			return fmt.Errorf("add %s: %w", full, err)
		}
		r.Index.Upsert(newEntry(ToIndexPath(rel), hash, mtime))
		return nil
	}

	if info.IsDir() {
		if err := walkWorkTree(target, func(path string, fi os.FileInfo) error {
			return stage(path)
		}); err != nil {
			return err
		}
	} else {
		if err := stage(target); err != nil {
			return err
		}
	}

	prefix := ""
	if pathArg != "." && pathArg != "" {
		prefix = ToIndexPath(pathArg)
	}
	r.Index.Prune(prefix, r.WorkDir)

	return r.Index.Save()
}

// Commit builds a tree from the current index and records a commit
// pointing at it, advancing the current branch.
func (r *Repository) Commit(message string) (Hash, error) {
	if err := r.Index.Load(); err != nil {
		return "", err
	}
	resolve := r.Index.ToHashMap(true)
	var paths []string
	for _, e := range r.Index.Entries {
		paths = append(paths, e.Path)
	}
	tree, err := BuildTree(r.Store, paths, func(p string) (Hash, bool) {
		h, ok := resolve[p]
		return h, ok
	})
	if err != nil {
		return "", err
	}
	return WriteCommit(r.Store, r.Refs, tree, message, "")
}

// Branch creates a new branch at the current commit.
func (r *Repository) Branch(name string) error {
	return r.Refs.CreateBranch(name)
}

// Checkout switches the working copy, index, and HEAD to branchName.
func (r *Repository) Checkout(branchName string) error {
	if err := r.Index.Load(); err != nil {
		return err
	}
	return Checkout(r.Store, r.Refs, r.Index, r.WorkDir, branchName)
}

// Merge three-way merges targetBranch into the current branch.
func (r *Repository) Merge(targetBranch string) (*MergeOutcome, error) {
	if err := r.Index.Load(); err != nil {
		return nil, err
	}
	return Merge(r.Store, r.Refs, r.Index, r.WorkDir, targetBranch)
}

// DiffIndexWorkdir, DiffHeadIndex, and DiffHeadWorkdir expose the three
// diff variants against this repository's current index.

func (r *Repository) DiffIndexWorkdir() ([]string, error) {
	if err := r.Index.Load(); err != nil {
		return nil, err
	}
	return DiffIndexWorkdir(r.Index, r.WorkDir)
}

func (r *Repository) DiffHeadIndex() ([]string, error) {
	if err := r.Index.Load(); err != nil {
		return nil, err
	}
	return DiffHeadIndex(r.Store, r.Refs, r.Index)
}

func (r *Repository) DiffHeadWorkdir() ([]string, error) {
	if err := r.Index.Load(); err != nil {
		return nil, err
	}
	return DiffHeadWorkdir(r.Store, r.Refs, r.Index, r.WorkDir)
}

// DiffAgainstBranch compares the current HEAD's tree against another
// branch's head tree (`diff -b <branch>`).
func (r *Repository) DiffAgainstBranch(branchName string) ([]string, error) {
	if !r.Refs.BranchExists(branchName) {
		return nil, fmt.Errorf("the provided branch name does not exist: %w", ErrPrecondition)
	}
	headCommit, err := r.Refs.HeadCommit()
	if err != nil {
		return nil, err
	}
	otherCommit, err := r.Refs.LatestCommitOfBranch(branchName)
	if err != nil {
		return nil, err
	}
	return r.diffCommits(headCommit, otherCommit)
}

// DiffAgainstCommit compares the current HEAD's tree against an arbitrary
// commit's tree (`diff -c <commit>`).
func (r *Repository) DiffAgainstCommit(commitHash Hash) ([]string, error) {
	headCommit, err := r.Refs.HeadCommit()
	if err != nil {
		return nil, err
	}
	return r.diffCommits(headCommit, commitHash)
}

func (r *Repository) diffCommits(a, b Hash) ([]string, error) {
	aTree, err := resolveCommitTree(r.Store, a)
	if err != nil {
		return nil, err
	}
	bTree, err := resolveCommitTree(r.Store, b)
	if err != nil {
		return nil, fmt.Errorf("resolve commit %s: %w", b, ErrNotFound)
	}
	return DiffTrees(r.Store, aTree, bTree)
}

// CatFile resolves a (possibly abbreviated) object hash, decompresses it,
// and returns its raw payload together with its kind.
func (r *Repository) CatFile(hashOrPrefix string) ([]byte, Kind, error) {
	full := Hash(hashOrPrefix)
	if len(hashOrPrefix) != 40 {
		resolved, err := r.Store.PrefixLookup(hashOrPrefix)
		if err != nil {
			return nil, "", err
		}
		full = resolved
	}
	payload, err := r.Store.Get(full)
	if err != nil {
		return nil, "", err
	}
	// Blob payloads start with a literal "blob\0" header and commit
	// payloads start with a literal "tree\0<hash>" line (the field is
	// named after what it references, not what it is). A tree object's
	// own payload has neither prefix: its first entry starts with a mode
	// token such as "100644" or "040000".
	kind := KindTree
	switch {
	case hasPrefix(string(payload), "blob\x00"):
		kind = KindBlob
	case hasPrefix(string(payload), "tree\x00"):
		kind = KindCommit
	}
	return payload, kind, nil
}
