package wordlist

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// compressedSuffix marks gzip-compressed wordlists.
const compressedSuffix = ".gz"

// Entry describes one wordlist available to a Resolver.
type Entry struct {
	// Name is the identifier to pass to Open, using forward slashes.
	Name string `json:"name"`

	// Size is the on-disk size in bytes.
	Size int64 `json:"size"`

	// Compressed is true for gzip wordlists.
	Compressed bool `json:"compressed"`
}

// Resolver maps wordlist identifiers to files under one directory.
// A Resolver holds no open handles and is safe for concurrent use.
type Resolver struct {
	dir         string
	defaultName string
}

// NewResolver returns a Resolver rooted at dir. defaultName is used by Open
// when the caller supplies no identifier.
func NewResolver(dir, defaultName string) *Resolver {
	return &Resolver{dir: dir, defaultName: defaultName}
}

// Dir returns the directory wordlists are resolved against.
func (r *Resolver) Dir() string {
	return r.dir
}

// DefaultName returns the identifier used when none is given.
func (r *Resolver) DefaultName() string {
	return r.defaultName
}

// Open returns a reader over the named wordlist's lines. An empty name
// selects the default wordlist. The caller must close the returned reader.
func (r *Resolver) Open(name string) (io.ReadCloser, error) {
	if name == "" {
		name = r.defaultName
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no wordlist name given and no default configured", ErrWordlistNotFound)
	}
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q", ErrOutsideWordlistDir, name)
	}

	root, err := os.OpenRoot(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrWordlistNotFound, r.dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrWordlistUnreadable, err)
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		return nil, classifyOpenError(name, err)
	}

	return wrap(f, name)
}

// OpenFile opens the wordlist at path without any directory restriction.
// It is meant for paths given by the operator on the command line; names
// from API clients go through Resolver.Open. Files ending in .gz are
// decompressed.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // operator-provided path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrWordlistNotFound, path)
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrWordlistUnreadable, path, err)
	}
	return wrap(f, path)
}

// wrap checks that f is a regular file and adds gzip decompression when
// name ends in .gz. f is closed on error.
func wrap(f *os.File, name string) (io.ReadCloser, error) {
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q: %w", ErrWordlistUnreadable, name, err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q is not a regular file", ErrWordlistNotFound, name)
	}

	if !strings.HasSuffix(name, compressedSuffix) {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q: %w", ErrWordlistUnreadable, name, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

// classifyOpenError maps an os.Root open failure to a wordlist error.
// os.Root reports escapes through symlinks with an unexported error, so any
// failure that is neither "missing" nor "denied" is treated as an escape.
func classifyOpenError(name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %q", ErrWordlistNotFound, name)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %q: %w", ErrWordlistUnreadable, name, err)
	default:
		return fmt.Errorf("%w: %q: %w", ErrOutsideWordlistDir, name, err)
	}
}

// List returns every regular, non-hidden file under the directory in
// lexical walk order. A missing directory yields an empty list.
func (r *Resolver) List() ([]Entry, error) {
	root, err := os.OpenRoot(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrWordlistUnreadable, err)
	}
	defer root.Close()

	entries := []Entry{}
	err = fs.WalkDir(root.FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(path.Base(p), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Name:       p,
			Size:       info.Size(),
			Compressed: strings.HasSuffix(p, compressedSuffix),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWordlistUnreadable, err)
	}
	return entries, nil
}

// gzipFile closes both the decompressor and the underlying file.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}
