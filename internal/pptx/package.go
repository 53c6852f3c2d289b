package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const contentTypesPart = "[Content_Types].xml"

var (
	ErrPartNotFound         = errors.New("part not found")
	ErrContentTypesNotFound = errors.New("[Content_Types].xml not found")
	ErrNoOfficeDocument     = errors.New("package has no officeDocument relationship")
)

// Package is an in-memory OPC container. Part names carry no leading slash
// ("ppt/presentation.xml").
type Package struct {
	parts map[string][]byte
	order []string
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// OpenPackage reads every part of the zip file at path into memory.
func OpenPackage(path string) (*Package, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer zr.Close()

	return readZip(&zr.Reader)
}

// ReadPackage reads a package from r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	return readZip(zr)
}

func readZip(zr *zip.Reader) (*Package, error) {
	p := NewPackage()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		p.SetPart(normalizePartName(f.Name), data)
	}

	if !p.HasPart(contentTypesPart) {
		return nil, ErrContentTypesNotFound
	}
	return p, nil
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[normalizePartName(name)]
	return ok
}

// ReadPart returns the contents of a part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	data, ok := p.parts[normalizePartName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return data, nil
}

// SetPart creates or replaces a part. New parts are appended to the write order.
func (p *Package) SetPart(name string, data []byte) {
	name = normalizePartName(name)
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// DeletePart removes a part if present.
func (p *Package) DeletePart(name string) {
	name = normalizePartName(name)
	if _, ok := p.parts[name]; !ok {
		return
	}
	delete(p.parts, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// PartNames returns part names in write order.
func (p *Package) PartNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// PartsWithPrefix returns sorted part names under prefix.
func (p *Package) PartsWithPrefix(prefix string) []string {
	var names []string
	for _, n := range p.order {
		if strings.HasPrefix(n, prefix) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// WriteTo writes the package as a zip archive. [Content_Types].xml is always
// the first entry.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	names := make([]string, 0, len(p.order))
	if p.HasPart(contentTypesPart) {
		names = append(names, contentTypesPart)
	}
	for _, n := range p.order {
		if n != contentTypesPart {
			names = append(names, n)
		}
	}

	for _, name := range names {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return cw.n, fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if _, err := io.Copy(fw, bytes.NewReader(p.parts[name])); err != nil {
			return cw.n, fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return cw.n, nil
}

// SaveAs writes the package to a temporary file next to path and renames it
// into place.
func (p *Package) SaveAs(path string) error {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".brandeck-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// normalizePartName strips leading slashes and "./" so "/ppt/x.xml",
// "./ppt/x.xml" and "ppt/x.xml" refer to the same part.
func normalizePartName(name string) string {
	name = strings.TrimPrefix(name, "./")
	return strings.TrimLeft(name, "/")
}
