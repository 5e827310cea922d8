package revstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
)

func TestIsGeometryFile(t *testing.T) {
	cases := map[string]bool{
		"model.inp":     true,
		"model.i":       true,
		"deck.mcnp":     true,
		"geometry.xml":  true,
		"README.md":     false,
		"model.inp.bak": false,
	}
	for path, want := range cases {
		if got := revstore.IsGeometryFile(path); got != want {
			t.Errorf("IsGeometryFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	if _, err := revstore.Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := revstore.Init(dir); err != nil {
		t.Fatalf("Init (second call): %v", err)
	}
}

func TestOpenRejectsNonRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := revstore.Open(dir); err == nil {
		t.Error("expected an error opening a plain directory")
	}
}

func writeAndCommit(t *testing.T, dir string, store *revstore.Store, files map[string]string, message string) *object.Commit {
	t.Helper()
	wt, err := store.Repository().Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com"}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	commit, err := store.Repository().CommitObject(hash)
	if err != nil {
		t.Fatalf("CommitObject: %v", err)
	}
	return commit
}

func TestReadBlobAndFindGeometryFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := revstore.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	commit := writeAndCommit(t, dir, store, map[string]string{
		"model.inp": "v1",
		"notes.md":  "not geometry",
	}, "add model")

	data, err := store.ReadBlob(commit, "model.inp")
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("ReadBlob = %q, want %q", data, "v1")
	}

	paths, err := store.FindGeometryFiles(commit)
	if err != nil {
		t.Fatalf("FindGeometryFiles: %v", err)
	}
	if len(paths) != 1 || paths[0] != "model.inp" {
		t.Errorf("FindGeometryFiles = %v, want [model.inp]", paths)
	}
}

func TestResolveHEAD(t *testing.T) {
	dir := t.TempDir()
	store, err := revstore.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commit := writeAndCommit(t, dir, store, map[string]string{"model.inp": "v1"}, "add model")

	resolved, err := store.Resolve("HEAD")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Hash != commit.Hash {
		t.Errorf("Resolve(HEAD) = %s, want %s", resolved.Hash, commit.Hash)
	}
}

func TestResolveUnknownRevisionFails(t *testing.T) {
	dir := t.TempDir()
	store, err := revstore.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := store.Resolve("nonexistent-branch"); err == nil {
		t.Error("expected an error resolving an unknown revision")
	}
}

func TestShortHash(t *testing.T) {
	dir := t.TempDir()
	store, err := revstore.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commit := writeAndCommit(t, dir, store, map[string]string{"model.inp": "v1"}, "add model")

	short := revstore.ShortHash(commit.Hash)
	if len(short) != 7 {
		t.Errorf("ShortHash = %q, want length 7", short)
	}
	if commit.Hash.String()[:7] != short {
		t.Errorf("ShortHash = %q, want prefix of %s", short, commit.Hash)
	}
}

func TestReadWorkdirAndStaged(t *testing.T) {
	dir := t.TempDir()
	store, err := revstore.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeAndCommit(t, dir, store, map[string]string{"model.inp": "v1"}, "add model")

	if err := os.WriteFile(filepath.Join(dir, "model.inp"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := store.ReadWorkdir("model.inp")
	if err != nil {
		t.Fatalf("ReadWorkdir: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("ReadWorkdir = %q, want %q", data, "v2")
	}

	wt, err := store.Repository().Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add("model.inp"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	staged, err := store.ReadStagedBlob("model.inp")
	if err != nil {
		t.Fatalf("ReadStagedBlob: %v", err)
	}
	if string(staged) != "v2" {
		t.Errorf("ReadStagedBlob = %q, want %q", staged, "v2")
	}
}
