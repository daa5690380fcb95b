// Package git reads pending changes from a repository and commits them.
package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository wraps a go-git repository with a working tree.
type Repository struct {
	repo *gogit.Repository
}

// Open opens the repository containing path, searching parent directories.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, repoErr(KindNotRepository, fmt.Errorf("%s: %w", path, err))
		}
		return nil, repoErr(KindCorrupt, err)
	}
	return New(repo), nil
}

// New wraps an already opened repository.
func New(repo *gogit.Repository) *Repository {
	return &Repository{repo: repo}
}

// Root returns the working tree root, or "" for a bare repository.
func (r *Repository) Root() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// Head returns the hash of the current HEAD commit.
func (r *Repository) Head() (plumbing.Hash, error) {
	c, err := r.headCommit()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return c.Hash, nil
}

func (r *Repository) headCommit() (*object.Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, repoErr(KindNoHead, ErrNoHead)
		}
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to resolve HEAD: %w", err))
	}

	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to read HEAD commit %s: %w", ref.Hash(), err))
	}
	return c, nil
}

func (r *Repository) worktree() (*gogit.Worktree, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, repoErr(KindNotRepository, err)
		}
		return nil, repoErr(KindCorrupt, err)
	}
	return wt, nil
}
