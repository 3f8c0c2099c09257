package driver

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Revision identifies the commit a source file was compiled from.
type Revision struct {
	Root  string
	Hash  string
	Clean bool
}

func (r *Revision) String() string {
	if r == nil {
		return ""
	}
	short := r.Hash
	if len(short) > 12 {
		short = short[:12]
	}
	if !r.Clean {
		return short + "-dirty"
	}
	return short
}

// SourceRevision reports the HEAD commit of the git repository containing path. It
// returns nil without error when path is not inside a repository or the repository has
// no commits yet.
func SourceRevision(path string) (*Revision, error) {
	if path == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("provenance: resolve %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("provenance: open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("provenance: resolve HEAD: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("provenance: worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("provenance: status: %w", err)
	}
	return &Revision{
		Root:  worktree.Filesystem.Root(),
		Hash:  head.Hash().String(),
		Clean: status.IsClean(),
	}, nil
}
