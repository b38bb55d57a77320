package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanreport/ast"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	abs, err := filepath.Abs(path)
	assert.NoError(t, err)
	return abs
}

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := writeFile(t, tmpDir, "main.yaml", `
entries:
  - {date: 2024-01-02, txn: "*", narration: Test, postings: [{account: Assets:Checking, units: 100.00 USD}, {account: Equity:Opening-Balances, units: -100.00 USD}]}
  - {date: 2024-01-01, open: Assets:Checking, currencies: [USD]}
`)

	for _, ldr := range []*Loader{New(), New(WithFollowIncludes())} {
		result, err := ldr.Load(context.Background(), mainFile)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result.Entries))
		assert.Equal(t, mainFile, result.Root)
		assert.Equal(t, 0, len(result.Includes))

		// Sorted by date.
		_, ok := result.Entries[0].(*ast.Open)
		assert.True(t, ok)
	}
}

func TestLoadWithIncludeNoFollow(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "included.yaml", `
entries:
  - {date: 2024-01-01, open: Assets:Savings}
`)
	mainFile := writeFile(t, tmpDir, "main.yaml", `
include: [included.yaml]
entries:
  - {date: 2024-01-02, open: Assets:Checking}
`)

	result, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Entries))
	assert.Equal(t, []string{"included.yaml"}, result.Unresolved)
	assert.Equal(t, 0, len(result.Includes))
}

func TestLoadWithIncludeFollow(t *testing.T) {
	tmpDir := t.TempDir()
	includedFile := writeFile(t, tmpDir, "included.yaml", `
entries:
  - {date: 2024-01-01, open: Assets:Savings}
  - {date: 2024-01-03, open: Income:Salary}
`)
	mainFile := writeFile(t, tmpDir, "main.yaml", `
include: [included.yaml]
entries:
  - {date: 2024-01-02, open: Assets:Checking}
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(result.Entries))

	var accounts []ast.Account
	for _, entry := range result.Entries {
		accounts = append(accounts, entry.(*ast.Open).Account)
	}
	assert.Equal(t, []ast.Account{"Assets:Savings", "Assets:Checking", "Income:Salary"}, accounts)

	assert.Equal(t, mainFile, result.Root)
	assert.Equal(t, []string{includedFile}, result.Includes)
	assert.Equal(t, 0, len(result.Unresolved))
}

func TestLoadNestedIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	fileC := writeFile(t, tmpDir, "sub/deeper/c.yaml", `
entries:
  - {date: 2024-01-03, open: Assets:C}
`)
	fileB := writeFile(t, tmpDir, "sub/b.yaml", `
include: [deeper/c.yaml]
entries:
  - {date: 2024-01-02, open: Assets:B}
`)
	fileA := writeFile(t, tmpDir, "a.yaml", `
include: [sub/b.yaml]
entries:
  - {date: 2024-01-01, open: Assets:A}
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), fileA)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(result.Entries))
	assert.Equal(t, []string{fileB, fileC}, result.Includes)
}

func TestLoadCircularInclude(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "b.yaml", `
include: [a.yaml]
entries:
  - {date: 2024-01-02, open: Assets:B}
`)
	fileA := writeFile(t, tmpDir, "a.yaml", `
include: [b.yaml]
entries:
  - {date: 2024-01-01, open: Assets:A}
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), fileA)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Entries))
	assert.Equal(t, 1, len(result.Includes))
}

func TestLoadSameFileTwice(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "common.yaml", `
entries:
  - {date: 2024-01-01, open: Assets:Common}
`)
	mainFile := writeFile(t, tmpDir, "main.yaml", `
include: [common.yaml, ./common.yaml]
entries:
  - {date: 2024-01-02, open: Assets:Checking}
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Entries))
	assert.Equal(t, 1, len(result.Includes))
}

func TestLoadNonExistentInclude(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := writeFile(t, tmpDir, "main.yaml", `
include: [does-not-exist.yaml]
`)

	_, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.Error(t, err)
	assert.IsError(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "in file ")
}

func TestLoadOptionsPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "included.yaml", `
options:
  title: Included File
  operating_currency: EUR
`)
	mainFile := writeFile(t, tmpDir, "main.yaml", `
options:
  title: Main File
  operating_currency: [USD, CAD]
include: [included.yaml]
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Main File"}, result.Options["title"])
	assert.Equal(t, []string{"USD", "CAD"}, result.Options["operating_currency"])
}

func TestLoadCanceled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "included.yaml", "")
	mainFile := writeFile(t, tmpDir, "main.yaml", "include: [included.yaml]\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithFollowIncludes()).Load(ctx, mainFile)
	assert.IsError(t, err, context.Canceled)
}

func TestLoadBytes(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		data := []byte(`
entries:
  - {date: 2024-01-01, open: Assets:Checking}
`)
		for _, ldr := range []*Loader{New(), New(WithFollowIncludes())} {
			result, err := ldr.LoadBytes(context.Background(), "test.yaml", data)
			assert.NoError(t, err)
			assert.Equal(t, 1, len(result.Entries))
		}
	})

	t.Run("IncludesNoFollow", func(t *testing.T) {
		result, err := New().LoadBytes(context.Background(), "main.yaml", []byte("include: [accounts.yaml]\n"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"accounts.yaml"}, result.Unresolved)
	})

	t.Run("IncludesFollowStdin", func(t *testing.T) {
		_, err := New(WithFollowIncludes()).LoadBytes(context.Background(), "<stdin>", []byte("include: [accounts.yaml]\n"))
		assert.EqualError(t, err, "include directives are not supported when reading from stdin")
	})

	t.Run("IncludesFollowFile", func(t *testing.T) {
		_, err := New(WithFollowIncludes()).LoadBytes(context.Background(), "/path/to/main.yaml", []byte("include: [accounts.yaml]\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "use Load() instead of LoadBytes()")
	})

	t.Run("DecodeError", func(t *testing.T) {
		_, err := New().LoadBytes(context.Background(), "test.yaml", []byte("entries:\n  - {date: 2024-01-01, open: nope}\n"))
		var entryErr *EntryError
		assert.True(t, errors.As(err, &entryErr))
		assert.Equal(t, ast.Location{Filename: "test.yaml", Line: 2}, entryErr.GetPosition())
	})
}

func TestMustLoadBytes(t *testing.T) {
	ldr := New()

	result := ldr.MustLoadBytes(context.Background(), "empty.yaml", nil)
	assert.Equal(t, 0, len(result.Entries))

	assert.Panics(t, func() {
		ldr.MustLoadBytes(context.Background(), "invalid.yaml", []byte("entries: [{date: nope, open: Assets:Bank}]"))
	})
	assert.Panics(t, func() {
		ldr.MustLoad(context.Background(), "/nonexistent/file.yaml")
	})
}
