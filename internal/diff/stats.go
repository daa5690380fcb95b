package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FileStat holds per-file line counts of a parsed patch.
type FileStat struct {
	Name     string
	IsNew    bool
	IsDelete bool
	IsBinary bool
	Added    int
	Deleted  int
}

// Stats aggregates line counts over a patch.
type Stats struct {
	Files []FileStat
}

// Totals returns the file count and the added and deleted line sums.
func (s *Stats) Totals() (files, added, deleted int) {
	files = len(s.Files)
	for _, f := range s.Files {
		added += f.Added
		deleted += f.Deleted
	}
	return
}

// String renders a one-line summary such as "3 files changed, 10 insertions(+), 2 deletions(-)".
func (s *Stats) String() string {
	files, added, deleted := s.Totals()
	noun := "files"
	if files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s changed, %d insertions(+), %d deletions(-)", files, noun, added, deleted)
}

// ParseStats parses unified patch text and counts added and deleted lines per file.
func ParseStats(text string) (*Stats, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	stats := &Stats{Files: make([]FileStat, 0, len(parsed))}
	for _, f := range parsed {
		fs := FileStat{
			Name:     f.NewName,
			IsNew:    f.IsNew,
			IsDelete: f.IsDelete,
			IsBinary: f.IsBinary,
		}
		if fs.Name == "" {
			fs.Name = f.OldName
		}

		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					fs.Added++
				case gitdiff.OpDelete:
					fs.Deleted++
				}
			}
		}

		stats.Files = append(stats.Files, fs)
	}

	return stats, nil
}
