package git

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNothingToCommit is returned when staging everything leaves the tree
// identical to HEAD.
var ErrNothingToCommit = errors.New("nothing to commit: working tree clean")

// Signature returns the author configured for the repository, looking at
// local, global and system git config.
func (r *Repository) Signature() (*object.Signature, error) {
	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, repoErr(KindSignature, fmt.Errorf("failed to read git config: %w", err))
	}

	name, email := cfg.Author.Name, cfg.Author.Email
	if name == "" || email == "" {
		name, email = cfg.User.Name, cfg.User.Email
	}
	if name == "" || email == "" {
		return nil, repoErr(KindSignature, errors.New("user.name and user.email must be configured"))
	}

	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}

// Commit stages every working tree change and records a commit whose only
// parent is HEAD. The branch ref is moved last, so a failure at any earlier
// step leaves HEAD where it was; the index is restored to its prior state.
func (r *Repository) Commit(ctx context.Context, message string) (plumbing.Hash, error) {
	head, err := r.headCommit()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	sig, err := r.Signature()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	wt, err := r.worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	snapshot, err := r.snapshotIndex()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	fail := func(err error) (plumbing.Hash, error) {
		if rerr := r.repo.Storer.SetIndex(snapshot); rerr != nil {
			return plumbing.ZeroHash, fmt.Errorf("%w (restoring index also failed: %v)", err, rerr)
		}
		return plumbing.ZeroHash, err
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fail(&IOError{Err: fmt.Errorf("failed to stage changes: %w", err)})
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   []plumbing.Hash{head.Hash},
	})
	if err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			return fail(ErrNothingToCommit)
		}
		return fail(repoErr(KindCommit, err))
	}

	return hash, nil
}

// snapshotIndex copies the index deeply enough that staging cannot alter it.
func (r *Repository) snapshotIndex() (*index.Index, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to read index: %w", err))
	}

	cp := *idx
	cp.Entries = make([]*index.Entry, len(idx.Entries))
	for i, e := range idx.Entries {
		ec := *e
		cp.Entries[i] = &ec
	}
	return &cp, nil
}
