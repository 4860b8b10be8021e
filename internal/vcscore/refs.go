package vcscore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// headPrefix is the symbolic-ref marker stored in HEAD, using the literal
// backslash separator the on-disk format has always used for refs.
const headPrefix = "ref: refs\\heads\\"

// Refs reads and writes HEAD and the refs\heads\<branch> files under
// gitDir.
type Refs struct {
	gitDir string
}

func NewRefs(gitDir string) *Refs {
	return &Refs{gitDir: gitDir}
}

func (r *Refs) headPath() string {
	return filepath.Join(r.gitDir, "HEAD")
}

func (r *Refs) branchPath(name string) string {
	return filepath.Join(r.gitDir, "refs", "heads", name)
}

// CurrentBranch returns the branch name HEAD points to. If HEAD is
// detached (holds a raw commit hash), ok is false and branch is empty.
func (r *Refs) CurrentBranch() (branch string, ok bool, err error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		return "", false, fmt.Errorf("read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if strings.HasPrefix(content, headPrefix) {
		return strings.TrimPrefix(content, headPrefix), true, nil
	}
	return "", false, nil
}

// HeadCommit returns whatever HEAD currently resolves to: if detached, the
// raw hash directly; if symbolic, the referenced branch's commit (or ""
// for a branch with no commits yet).
func (r *Refs) HeadCommit() (Hash, error) {
	branch, ok, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	if !ok {
		data, err := os.ReadFile(r.headPath())
		if err != nil {
			return "", fmt.Errorf("read HEAD: %w", err)
		}
		return Hash(strings.TrimSpace(string(data))), nil
	}
	return r.latestCommit(branch)
}

func (r *Refs) latestCommit(branch string) (Hash, error) {
	data, err := os.ReadFile(r.branchPath(branch))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read branch %s: %w", branch, err)
	}
	return Hash(strings.TrimSpace(string(data))), nil
}

// LatestCommitOfBranch returns the commit hash the named branch's ref
// currently points at, or "" if the branch has no commits yet.
func (r *Refs) LatestCommitOfBranch(name string) (Hash, error) {
	return r.latestCommit(name)
}

// LatestCommitOfCurrentBranch returns "" if the current branch has no
// commits yet, or an error if HEAD is detached (no "current branch").
func (r *Refs) LatestCommitOfCurrentBranch() (Hash, error) {
	branch, ok, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("HEAD is detached: %w", ErrPrecondition)
	}
	return r.latestCommit(branch)
}

// SetLatestOfCurrentBranch rewrites the current branch's ref file.
func (r *Refs) SetLatestOfCurrentBranch(hash Hash) error {
	branch, ok, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("HEAD is detached: %w", ErrPrecondition)
	}
	return r.SetBranchHead(branch, hash)
}

// SetBranchHead writes hash as the named branch's ref content.
func (r *Refs) SetBranchHead(branch string, hash Hash) error {
	if err := writeBytes(r.branchPath(branch), []byte(hash.String())); err != nil {
		return fmt.Errorf("set branch %s: %w", branch, err)
	}
	return nil
}

// BranchExists reports whether refs\heads\<name> exists.
func (r *Refs) BranchExists(name string) bool {
	_, err := os.Stat(r.branchPath(name))
	return err == nil
}

// CreateBranch copies the current branch's commit hash into
// refs\heads\<name>. Fails if name already exists or if no branch is
// currently checked out.
func (r *Refs) CreateBranch(name string) error {
	if r.BranchExists(name) {
		return fmt.Errorf("branch %q already exists: %w", name, ErrPrecondition)
	}
	branch, ok, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no branch currently checked out: %w", ErrPrecondition)
	}
	head, err := r.latestCommit(branch)
	if err != nil {
		return err
	}
	return r.SetBranchHead(name, head)
}

// SetHeadToBranch rewrites HEAD to a symbolic ref pointing at name.
func (r *Refs) SetHeadToBranch(name string) error {
	if err := writeBytes(r.headPath(), []byte(headPrefix+name)); err != nil {
		return fmt.Errorf("set HEAD: %w", err)
	}
	return nil
}

// InitHead writes the initial symbolic HEAD ref for a freshly created
// repository, pointing at the given default branch (master).
func (r *Refs) InitHead(defaultBranch string) error {
	return r.SetHeadToBranch(defaultBranch)
}
