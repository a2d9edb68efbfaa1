package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/ulikunitz/xz"
)

var chunkPattern = regexp.MustCompile(`^keys-(\d{4})\.json(\.xz)?$`)

// ChunkRef identifies one journal chunk on disk, resolved to an absolute
// path so Open works regardless of the discovery directory's lifetime.
type ChunkRef struct {
	// Name is the chunk's base filename, e.g. "keys-0001.json.xz".
	Name string
	// Path is the absolute path Open reads from.
	Path string
	// Compressed is true for .xz chunks, which Open transparently
	// decompresses.
	Compressed bool
	// ChunkID is the 4-digit id parsed from Name, used only for sorting
	// and diagnostics — callers should not assume contiguity.
	ChunkID int
}

// Discover lists dir, matches keys-NNNN.json / keys-NNNN.json.xz, and
// returns the matches sorted ascending by chunk id.
// Files with any other name are ignored, not errored. A missing directory
// or unreadable entry is fatal.
func Discover(dir string) ([]ChunkRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("journal: discover %s: %w", dir, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("journal: discover %s: %w", dir, err)
	}

	var refs []ChunkRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := chunkPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		var id int
		fmt.Sscanf(m[1], "%04d", &id)
		refs = append(refs, ChunkRef{
			Name:       e.Name(),
			Path:       filepath.Join(absDir, e.Name()),
			Compressed: m[2] == ".xz",
			ChunkID:    id,
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ChunkID < refs[j].ChunkID })
	return refs, nil
}

// Open opens the chunk for reading, transparently wrapping it in an xz
// decompressing reader when Compressed is set. The caller must Close the
// returned stream.
func (c ChunkRef) Open() (io.ReadCloser, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", c.Path, err)
	}
	if !c.Compressed {
		return f, nil
	}

	zr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: xz header %s: %w", c.Path, err)
	}
	return &xzReadCloser{xz: zr, f: f}, nil
}

// xzReadCloser adapts ulikunitz/xz's io.Reader to io.ReadCloser, closing the
// underlying file (the xz.Reader itself holds no closeable resource).
type xzReadCloser struct {
	xz io.Reader
	f  *os.File
}

func (x *xzReadCloser) Read(p []byte) (int, error) { return x.xz.Read(p) }
func (x *xzReadCloser) Close() error                { return x.f.Close() }
