package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierrors "github.com/avalenz/inventario/internal/errors"
	"github.com/avalenz/inventario/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "inventario.csv"))
	require.NoError(t, s.Load())
	return s
}

func product(code, name, price string, stock, sold int64) model.Product {
	return model.Product{
		Code:  code,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
		Sold:  sold,
	}
}

func Test_FileStore_Load_CreatesMissingFile(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "inventario.csv")
	s := NewFileStore(path)
	// when
	require.NoError(t, s.Load())
	// then
	products, err := s.FindAll()
	require.NoError(t, err)
	assert.Empty(t, products)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffcode;name;price;stock;sold\n", string(content))
}

func Test_FileStore_SaveLoad_RoundTrip(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "inventario.csv")
	s := NewFileStore(path)
	require.NoError(t, s.Load())
	seed := []model.Product{
		product("A1", "Widget", "10.50", 5, 0),
		product("B2", "Name; with delimiter", "1234.56", 0, 120),
		product("C3", "Gadget", "0", 99, 1),
	}
	for _, p := range seed {
		require.NoError(t, s.Append(p))
	}

	// when: a fresh store reads the same file
	reloaded := NewFileStore(path)
	require.NoError(t, reloaded.Load())

	// then: same products, same values, same order
	products, err := reloaded.FindAll()
	require.NoError(t, err)
	require.Len(t, products, len(seed))
	for i := range seed {
		assert.True(t, products[i].Equal(seed[i]), "row %d: got %+v, want %+v", i, products[i], seed[i])
	}
}

func Test_FileStore_Load_ToleratesSpreadsheetOutput(t *testing.T) {
	// given: BOM, mixed-case padded headers, currency formatting, bad cells
	path := filepath.Join(t.TempDir(), "inventario.csv")
	raw := "\ufeffCode ;NAME;Precio?;price;stock;sold\n" +
		"A1;Widget;x;$ 1.234,56;5;bad\n" +
		"B2;Gadget;x;19,99;none;3\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	s := NewFileStore(path)

	// when
	require.NoError(t, s.Load())

	// then: every row survives, bad cells degrade to zero
	products, err := s.FindAll()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].Equal(product("A1", "Widget", "1234.56", 5, 0)))
	assert.True(t, products[1].Equal(model.Product{Code: "B2", Name: "Gadget", Price: decimal.RequireFromString("19.99"), Stock: 0, Sold: 3}))
}

func Test_FileStore_Append_DuplicateCode(t *testing.T) {
	// given
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Widget", "10", 5, 0)))
	// when
	err := s.Append(product("A1", "Other", "20", 1, 0))
	// then
	assert.ErrorIs(t, err, ierrors.ErrDuplicateCode)
	products, _ := s.FindAll()
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func Test_FileStore_FindByCode(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Widget", "10", 5, 0)))

	found, err := s.FindByCode("A1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)

	// exact match is case-sensitive
	_, err = s.FindByCode("a1")
	assert.ErrorIs(t, err, ierrors.ErrProductNotFound)
}

func Test_FileStore_Search(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Black Widget", "10", 5, 0)))
	require.NoError(t, s.Append(product("B2", "White Gadget", "20", 3, 0)))
	require.NoError(t, s.Append(product("C3", "widget pro", "30", 1, 0)))

	testCases := []struct {
		name     string
		term     string
		expected []string
	}{
		{name: "code equality ignores case", term: "a1", expected: []string{"A1"}},
		{name: "name substring ignores case", term: "WIDGET", expected: []string{"A1", "C3"}},
		{name: "no match is empty not error", term: "nothing", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := s.Search(tc.term)
			require.NoError(t, err)
			codes := make([]string, 0, len(found))
			for _, p := range found {
				codes = append(codes, p.Code)
			}
			if tc.expected == nil {
				assert.Empty(t, codes)
				return
			}
			assert.Equal(t, tc.expected, codes)
		})
	}
}

func Test_FileStore_Replace(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Widget", "10", 5, 0)))

	// when
	err := s.Replace("A1", product("A1", "Widget", "10", 2, 3))
	// then
	require.NoError(t, err)
	found, err := s.FindByCode("A1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Stock)
	assert.Equal(t, int64(3), found.Sold)

	assert.ErrorIs(t, s.Replace("ZZ", product("ZZ", "x", "1", 0, 0)), ierrors.ErrProductNotFound)
}

func Test_FileStore_Remove(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Widget", "10", 5, 0)))
	require.NoError(t, s.Append(product("B2", "Gadget", "20", 3, 0)))

	// when
	require.NoError(t, s.Remove("A1"))

	// then: gone from memory and from a fresh load of the file
	_, err := s.FindByCode("A1")
	assert.ErrorIs(t, err, ierrors.ErrProductNotFound)
	assert.ErrorIs(t, s.Remove("A1"), ierrors.ErrProductNotFound)

	reloaded := NewFileStore(s.path)
	require.NoError(t, reloaded.Load())
	products, _ := reloaded.FindAll()
	require.Len(t, products, 1)
	assert.Equal(t, "B2", products[0].Code)
}

func Test_FileStore_SaveFailure_RollsBack(t *testing.T) {
	// given: a store whose backing file becomes unwritable after load
	s := newTestStore(t)
	require.NoError(t, s.Append(product("A1", "Widget", "10", 5, 0)))
	s.path = filepath.Join(s.path, "not-a-directory", "inventario.csv")

	testCases := []struct {
		name    string
		mutate  func() error
		wantLen int
	}{
		{name: "append rolls back", mutate: func() error { return s.Append(product("B2", "Gadget", "20", 1, 0)) }, wantLen: 1},
		{name: "replace rolls back", mutate: func() error { return s.Replace("A1", product("A1", "Widget", "10", 0, 5)) }, wantLen: 1},
		{name: "remove rolls back", mutate: func() error { return s.Remove("A1") }, wantLen: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			err := tc.mutate()
			// then: persistence failed and memory is unchanged
			assert.ErrorIs(t, err, ierrors.ErrPersistence)
			products, findErr := s.FindAll()
			require.NoError(t, findErr)
			require.Len(t, products, tc.wantLen)
			assert.True(t, products[0].Equal(product("A1", "Widget", "10", 5, 0)))
		})
	}
}
