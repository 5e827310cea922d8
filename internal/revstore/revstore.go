// Package revstore wraps the revision store (a Git repository) that
// holds geometry files under version control. It is the sole place this
// module depends on Git plumbing, mirroring the original tool's
// git_helpers.c.
package revstore

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GeomExtensions are the file suffixes recognized as geometry files.
var GeomExtensions = []string{".inp", ".i", ".mcnp", ".xml"}

// IsGeometryFile reports whether path has one of the recognized geometry
// file extensions.
func IsGeometryFile(path string) bool {
	for _, ext := range GeomExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ErrNotARepository is returned by Open when the given directory is not
// inside a Git working tree.
type ErrNotARepository struct {
	Path string
	Err  error
}

func (e *ErrNotARepository) Error() string {
	return fmt.Sprintf("not a git repository at %q: %v", e.Path, e.Err)
}

func (e *ErrNotARepository) Unwrap() error { return e.Err }

// ErrUnresolvedRevision is returned when a revision spec cannot be
// resolved to a commit.
type ErrUnresolvedRevision struct {
	Spec string
	Err  error
}

func (e *ErrUnresolvedRevision) Error() string {
	return fmt.Sprintf("cannot resolve %q: %v", e.Spec, e.Err)
}

func (e *ErrUnresolvedRevision) Unwrap() error { return e.Err }

// Store wraps an open repository.
type Store struct {
	repo *git.Repository
}

// Open opens the repository rooted at or above dir.
func Open(dir string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &ErrNotARepository{Path: dir, Err: err}
	}
	return &Store{repo: repo}, nil
}

// Init initializes a new repository at dir, or opens it if one already
// exists there (idempotent, matching the original cmd_init behavior).
func Init(dir string) (*Store, error) {
	repo, err := git.PlainInit(dir, false)
	if err == git.ErrRepositoryAlreadyExists {
		return Open(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing repository at %q: %w", dir, err)
	}
	return &Store{repo: repo}, nil
}

// Resolve resolves a revision spec ("HEAD", a branch name, a short or
// full hash, "HEAD~2", ...) to a commit.
func (s *Store) Resolve(spec string) (*object.Commit, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return nil, &ErrUnresolvedRevision{Spec: spec, Err: err}
	}
	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, &ErrUnresolvedRevision{Spec: spec, Err: err}
	}
	return commit, nil
}

// ReadBlob returns the contents of path as recorded in commit's tree.
func (s *Store) ReadBlob(commit *object.Commit, path string) ([]byte, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree for commit %s: %w", commit.Hash, err)
	}
	file, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q at commit %s: %w", path, commit.Hash, err)
	}
	r, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening %q at commit %s: %w", path, commit.Hash, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ReadStagedBlob returns the contents of path as currently recorded in
// the index (staging area), regardless of the working tree's contents.
func (s *Store) ReadStagedBlob(path string) ([]byte, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	idx, err := s.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	entry, err := idx.Entry(path)
	if err != nil {
		return nil, fmt.Errorf("%q is not staged: %w", path, err)
	}
	blob, err := object.GetBlob(s.repo.Storer, entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("reading staged blob for %q: %w", path, err)
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	_ = wt
	return io.ReadAll(r)
}

// ReadWorkdir returns the current on-disk contents of path relative to
// the worktree root.
func (s *Store) ReadWorkdir(path string) ([]byte, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	f, err := wt.Filesystem.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q from worktree: %w", path, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// FindGeometryFiles lists geometry file paths tracked in commit's tree,
// sorted lexically for deterministic output.
func (s *Store) FindGeometryFiles(commit *object.Commit) ([]string, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree for commit %s: %w", commit.Hash, err)
	}

	var paths []string
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking tree for commit %s: %w", commit.Hash, err)
		}
		if entry.Mode.IsFile() && IsGeometryFile(name) {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// FindGeometryFilesWorkdir lists geometry files known to the index or the
// working tree (staged and unstaged, including untracked), sorted
// lexically and de-duplicated.
func (s *Store) FindGeometryFilesWorkdir() ([]string, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("computing status: %w", err)
	}

	seen := make(map[string]bool)
	var paths []string
	for path := range status {
		if IsGeometryFile(path) && !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ShortHash returns the 7-character abbreviated form of a commit hash,
// matching the original tool's ag_short_oid.
func ShortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) < 7 {
		return s
	}
	return s[:7]
}

// Repository exposes the underlying go-git repository for collaborators
// (internal/cli) that need operations revstore doesn't wrap directly,
// such as staging and committing.
func (s *Store) Repository() *git.Repository { return s.repo }
