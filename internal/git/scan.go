package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Scope names which half of a ChangeSet a selection came from.
type Scope int

const (
	ScopeStaged Scope = iota
	ScopeUnstaged
)

func (s Scope) String() string {
	if s == ScopeStaged {
		return "staged"
	}
	return "unstaged"
}

// ChangeSet is the result of one scan. It is not modified after Scan returns.
type ChangeSet struct {
	StagedFiles   []string
	UnstagedFiles []string
	StagedDiff    string
	UnstagedDiff  string
}

// DiffSelection is the working set handed to message generation.
type DiffSelection struct {
	Scope Scope
	Files []string
	Diff  string
}

// IsEmpty reports whether there is nothing staged and nothing in the working tree.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.StagedFiles) == 0 && len(c.UnstagedFiles) == 0
}

// Select returns the staged scope when the staged diff is non-empty and the
// unstaged scope otherwise. Scopes are never merged.
func (c *ChangeSet) Select() DiffSelection {
	if c.StagedDiff != "" {
		return DiffSelection{Scope: ScopeStaged, Files: c.StagedFiles, Diff: c.StagedDiff}
	}
	return DiffSelection{Scope: ScopeUnstaged, Files: c.UnstagedFiles, Diff: c.UnstagedDiff}
}

func isStaged(fs *gogit.FileStatus) bool {
	switch fs.Staging {
	case gogit.Added, gogit.Modified, gogit.Deleted, gogit.Renamed, gogit.Copied:
		return true
	}
	return false
}

func isUnstaged(fs *gogit.FileStatus) bool {
	switch fs.Worktree {
	case gogit.Untracked, gogit.Modified, gogit.Deleted:
		return true
	}
	return false
}

// Scan enumerates status once and computes the staged diff (HEAD tree to
// index) and the unstaged diff (index to working tree, tracked files only).
// It reads the repository and never writes to it.
func (r *Repository) Scan(ctx context.Context) (*ChangeSet, error) {
	head, err := r.headCommit()
	if err != nil {
		return nil, err
	}

	wt, err := r.worktree()
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, repoErr(KindStatus, fmt.Errorf("failed to enumerate status: %w", err))
	}

	cs := &ChangeSet{}
	for path, fs := range status {
		if isStaged(fs) {
			cs.StagedFiles = append(cs.StagedFiles, path)
		}
		if isUnstaged(fs) {
			cs.UnstagedFiles = append(cs.UnstagedFiles, path)
		}
	}
	sort.Strings(cs.StagedFiles)
	sort.Strings(cs.UnstagedFiles)

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to read index: %w", err))
	}

	if cs.StagedDiff, err = r.stagedDiff(ctx, head, idx); err != nil {
		return nil, err
	}
	if cs.UnstagedDiff, err = r.unstagedDiff(ctx, wt.Filesystem, idx, status); err != nil {
		return nil, err
	}

	return cs, nil
}

type entry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

func (r *Repository) stagedDiff(ctx context.Context, head *object.Commit, idx *index.Index) (string, error) {
	tree, err := head.Tree()
	if err != nil {
		return "", repoErr(KindCorrupt, fmt.Errorf("failed to read HEAD tree: %w", err))
	}

	before := map[string]entry{}
	err = tree.Files().ForEach(func(f *object.File) error {
		before[f.Name] = entry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	if err != nil {
		return "", repoErr(KindCorrupt, fmt.Errorf("failed to walk HEAD tree: %w", err))
	}

	after := make(map[string]entry, len(idx.Entries))
	for _, e := range idx.Entries {
		after[e.Name] = entry{hash: e.Hash, mode: e.Mode}
	}

	paths := make([]string, 0, len(after))
	for p := range before {
		paths = append(paths, p)
	}
	for p := range after {
		if _, ok := before[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var fps []fdiff.FilePatch
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		b, inBefore := before[p]
		a, inAfter := after[p]
		if inBefore && inAfter && b == a {
			continue
		}

		var from, to *side
		if inBefore {
			if from, err = r.blobSide(p, b); err != nil {
				return "", err
			}
		}
		if inAfter {
			if to, err = r.blobSide(p, a); err != nil {
				return "", err
			}
		}

		fp, err := newFilePatch(from, to)
		if err != nil {
			return "", err
		}
		fps = append(fps, fp)
	}

	return encodePatch(fps)
}

func (r *Repository) unstagedDiff(ctx context.Context, fs billy.Filesystem, idx *index.Index, status gogit.Status) (string, error) {
	entries := make([]*index.Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		st, ok := status[e.Name]
		if ok && (st.Worktree == gogit.Modified || st.Worktree == gogit.Deleted) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var fps []fdiff.FilePatch
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		from, err := r.blobSide(e.Name, entry{hash: e.Hash, mode: e.Mode})
		if err != nil {
			return "", err
		}

		var to *side
		if status[e.Name].Worktree != gogit.Deleted {
			if to, err = worktreeSide(fs, e.Name); err != nil {
				return "", err
			}
		}

		fp, err := newFilePatch(from, to)
		if err != nil {
			return "", err
		}
		fps = append(fps, fp)
	}

	return encodePatch(fps)
}

func (r *Repository) blobSide(path string, e entry) (*side, error) {
	s := &side{path: path, hash: e.hash, mode: e.mode}
	if e.mode == filemode.Submodule {
		return s, nil
	}

	blob, err := r.repo.BlobObject(e.hash)
	if err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to read blob %s for %s: %w", e.hash, path, err))
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to open blob %s: %w", e.hash, err))
	}
	defer rd.Close()

	if s.content, err = io.ReadAll(rd); err != nil {
		return nil, repoErr(KindCorrupt, fmt.Errorf("failed to read blob %s: %w", e.hash, err))
	}
	return s, nil
}

// worktreeSide reads a working tree file the way git hashes it: symlinks
// contribute their target, regular files their content.
func worktreeSide(fs billy.Filesystem, path string) (*side, error) {
	info, err := fs.Lstat(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	mode, err := filemode.NewFromOSFileMode(info.Mode())
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	var content []byte
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := fs.Readlink(path)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		content = []byte(target)
	} else if content, err = util.ReadFile(fs, path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Path: path, Err: err}
	}

	return &side{
		path:    path,
		hash:    plumbing.ComputeHash(plumbing.BlobObject, content),
		mode:    mode,
		content: content,
	}, nil
}
