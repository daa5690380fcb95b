package git

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/utils/binary"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// side is one version of a file in a comparison.
type side struct {
	path    string
	hash    plumbing.Hash
	mode    filemode.FileMode
	content []byte
}

func (s *side) Hash() plumbing.Hash     { return s.hash }
func (s *side) Mode() filemode.FileMode { return s.mode }
func (s *side) Path() string            { return s.path }

type chunk struct {
	content string
	op      fdiff.Operation
}

func (c chunk) Content() string       { return c.content }
func (c chunk) Type() fdiff.Operation { return c.op }

type filePatch struct {
	from, to *side
	binary   bool
	chunks   []fdiff.Chunk
}

func (p *filePatch) IsBinary() bool        { return p.binary }
func (p *filePatch) Chunks() []fdiff.Chunk { return p.chunks }

// Files returns untyped nils for missing sides; the encoder compares against nil.
func (p *filePatch) Files() (from, to fdiff.File) {
	if p.from != nil {
		from = p.from
	}
	if p.to != nil {
		to = p.to
	}
	return from, to
}

type patch []fdiff.FilePatch

func (p patch) FilePatches() []fdiff.FilePatch { return p }
func (p patch) Message() string                { return "" }

var operations = map[diffmatchpatch.Operation]fdiff.Operation{
	diffmatchpatch.DiffEqual:  fdiff.Equal,
	diffmatchpatch.DiffDelete: fdiff.Delete,
	diffmatchpatch.DiffInsert: fdiff.Add,
}

// newFilePatch compares two versions of a file line by line.
// Either side may be nil for an added or deleted file.
func newFilePatch(from, to *side) (*filePatch, error) {
	fp := &filePatch{from: from, to: to}

	for _, s := range []*side{from, to} {
		if s == nil {
			continue
		}
		isBinary, err := binary.IsBinary(bytes.NewReader(s.content))
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", s.path, err)
		}
		if isBinary {
			fp.binary = true
			return fp, nil
		}
	}

	var src, dst string
	if from != nil {
		src = string(from.content)
	}
	if to != nil {
		dst = string(to.content)
	}

	for _, d := range diff.Do(src, dst) {
		if d.Text == "" {
			continue
		}
		fp.chunks = append(fp.chunks, chunk{content: d.Text, op: operations[d.Type]})
	}
	return fp, nil
}

// encodePatch renders file patches as unified patch text in the given order.
func encodePatch(fps []fdiff.FilePatch) (string, error) {
	if len(fps) == 0 {
		return "", nil
	}

	var sb strings.Builder
	if err := fdiff.NewUnifiedEncoder(&sb, fdiff.DefaultContextLines).Encode(patch(fps)); err != nil {
		return "", fmt.Errorf("failed to encode patch: %w", err)
	}
	return sb.String(), nil
}
