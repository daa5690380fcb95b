package git

import (
	"errors"
	"fmt"
)

// ErrNoHead is reported when the repository has no commit yet.
var ErrNoHead = errors.New("repository has no HEAD commit")

// ErrorKind classifies a RepositoryError.
type ErrorKind int

const (
	KindNotRepository ErrorKind = iota + 1
	KindNoHead
	KindCorrupt
	KindStatus
	KindSignature
	KindCommit
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotRepository:
		return "not a repository"
	case KindNoHead:
		return "no HEAD"
	case KindCorrupt:
		return "corrupt repository"
	case KindStatus:
		return "status failed"
	case KindSignature:
		return "missing signature"
	case KindCommit:
		return "commit failed"
	default:
		return "unknown"
	}
}

// RepositoryError is fatal: the repository cannot be scanned or committed to.
type RepositoryError struct {
	Kind ErrorKind
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository error (%s): %v", e.Kind, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func repoErr(kind ErrorKind, err error) error {
	return &RepositoryError{Kind: kind, Err: err}
}

// IOError reports a working tree that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("working tree I/O error: %v", e.Err)
	}
	return fmt.Sprintf("working tree I/O error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
