package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/avalenz/inventario/internal/codec"
	ierrors "github.com/avalenz/inventario/internal/errors"
	"github.com/avalenz/inventario/internal/model"
)

// The producing spreadsheet environment exports semicolon-delimited files.
const delimiter = ';'

// FileStore implements InventoryStore on top of a semicolon-delimited text
// file. The file is the single durable truth: every mutation rewrites it
// wholesale, and a failed write rolls the in-memory state back so memory
// and disk never silently diverge.
type FileStore struct {
	path string

	mu       sync.RWMutex
	products []model.Product
}

var _ InventoryStore = (*FileStore)(nil)

// NewFileStore creates a store backed by the file at path.
// Call Load before using it.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the backing file into memory. A missing file is created with
// only the header row and yields an empty inventory. Rows are decoded
// best-effort: bad data degrades to zero values, it never fails the load.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.products = nil
		return s.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("failed to open inventory file %s: %w", s.path, err)
	}
	defer f.Close()

	products, err := readAll(f)
	if err != nil {
		return fmt.Errorf("failed to read inventory file %s: %w", s.path, err)
	}
	s.products = products
	return nil
}

// readAll decodes every record row. The reader strips a leading BOM, which
// the common spreadsheet tool prepends on export.
func readAll(f io.Reader) ([]model.Product, error) {
	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var products []model.Product
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Framing errors are per-row; keep going with the rest.
			continue
		}
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = record[i]
			}
		}
		products = append(products, codec.Decode(fields))
	}
	return products, nil
}

// Save rewrites the backing file from the current in-memory inventory.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes all products to a temp file in the target directory and
// renames it over the backing file, so a reader never observes a partial
// file. Callers must hold s.mu.
func (s *FileStore) saveLocked() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ierrors.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if err := writeAll(tmp, s.products); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ierrors.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ierrors.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", ierrors.ErrPersistence, err)
	}
	return nil
}

// writeAll emits the BOM, the header row and one row per product.
func writeAll(f io.Writer, products []model.Product) error {
	bw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bw)
	w.Comma = delimiter

	header := codec.Header()
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range products {
		fields := codec.Encode(p)
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = fields[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return bw.Close()
}

// FindAll returns a copy of the inventory in store order.
func (s *FileStore) FindAll() ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// FindByCode retrieves a product by exact code match, first occurrence wins.
func (s *FileStore) FindByCode(code string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].Code == code {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ierrors.ErrProductNotFound
}

// Search matches by case-insensitive code equality or name substring.
func (s *FileStore) Search(term string) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(term)
	var found []model.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Code, term) || strings.Contains(strings.ToLower(p.Name), needle) {
			found = append(found, p)
		}
	}
	return found, nil
}

// Append adds a new product at the end of the inventory and persists.
func (s *FileStore) Append(p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code == p.Code {
			return ierrors.ErrDuplicateCode
		}
	}
	s.products = append(s.products, p)
	if err := s.saveLocked(); err != nil {
		s.products = s.products[:len(s.products)-1]
		return err
	}
	return nil
}

// Replace swaps the first product matching code with p and persists.
func (s *FileStore) Replace(code string, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code == code {
			prev := s.products[i]
			s.products[i] = p
			if err := s.saveLocked(); err != nil {
				s.products[i] = prev
				return err
			}
			return nil
		}
	}
	return ierrors.ErrProductNotFound
}

// Remove deletes the first product matching code and persists.
func (s *FileStore) Remove(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code == code {
			prev := s.products[i]
			s.products = append(s.products[:i], s.products[i+1:]...)
			if err := s.saveLocked(); err != nil {
				s.products = append(s.products[:i], append([]model.Product{prev}, s.products[i:]...)...)
				return err
			}
			return nil
		}
	}
	return ierrors.ErrProductNotFound
}
