// Package history walks a file's revision history one content change at
// a time, skipping commits that touched the repository but left the
// file's contents untouched.
package history

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitSource is the subset of *revstore.Store that the history walker
// needs: resolving a revision spec and reaching the underlying
// repository to start a log traversal from a given commit.
type CommitSource interface {
	Resolve(spec string) (*object.Commit, error)
	Repository() *git.Repository
}

// Entry is one content-changing revision of a file.
type Entry struct {
	Commit   *object.Commit
	BlobHash plumbing.Hash
}

// Walk visits every commit, in time-descending order starting from
// fromRev, at which path's content actually changed, calling visit for
// each one. It stops early if visit returns false.
//
// A commit where path does not exist is a boundary: it resets the
// "previous blob" tracking so that if the file reappears later with the
// same content it had before being removed, that reappearance is still
// reported (matching the original tool's ag_walk_history).
func Walk(store CommitSource, fromRev, path string, visit func(Entry) bool) error {
	startCommit, err := store.Resolve(fromRev)
	if err != nil {
		return err
	}

	iter, err := store.Repository().Log(&git.LogOptions{
		From:  startCommit.Hash,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return fmt.Errorf("walking history of %q: %w", path, err)
	}
	defer iter.Close()

	var pending *Entry

	for {
		commit, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("walking history of %q: %w", path, err)
		}

		file, err := commit.File(path)
		if err == nil && pending != nil && file.Hash == pending.BlobHash {
			pending.Commit = commit // older commit with the same content
			continue
		}
		if pending != nil && !visit(*pending) {
			return nil
		}
		pending = nil
		if err == nil {
			pending = &Entry{Commit: commit, BlobHash: file.Hash}
		}
	}
	if pending != nil {
		visit(*pending)
	}
	return nil
}

// ShortHash returns the 7-character abbreviated form of a commit hash.
func ShortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) < 7 {
		return s
	}
	return s[:7]
}
