package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodBody = "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n\n-- +goose Down\nSELECT 1;\n"

func TestLint(t *testing.T) {
	tests := map[string]struct {
		files   fstest.MapFS
		wantErr string
	}{
		"valid": {
			files: fstest.MapFS{
				"20260301090000_a.sql": {Data: []byte(goodBody)},
				"README.md":            {Data: []byte("ignored")},
			},
		},
		"bad name": {
			files:   fstest.MapFS{"2026_a.sql": {Data: []byte(goodBody)}},
			wantErr: "invalid migration filename",
		},
		"duplicate version": {
			files: fstest.MapFS{
				"20260301090000_a.sql": {Data: []byte(goodBody)},
				"20260301090000_b.sql": {Data: []byte(goodBody)},
			},
			wantErr: "duplicate migration version",
		},
		"missing down": {
			files:   fstest.MapFS{"20260301090000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}},
			wantErr: "missing \"-- +goose Down\"",
		},
		"unterminated statement": {
			files:   fstest.MapFS{"20260301090000_a.sql": {Data: []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")}},
			wantErr: "unterminated StatementBegin",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := Lint(tc.files)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCreateWritesLintableFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 2, 8, 15, 0, 0, time.UTC)

	path, err := Create(dir, "  Add Outlet Hours! ", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260402081500_add_outlet_hours.sql"), path)
	require.NoError(t, Lint(os.DirFS(dir)))

	_, err = Create(dir, "add outlet hours", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = Create(dir, "!!!", now)
	require.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("20260301090500")
	require.NoError(t, err)
	assert.Equal(t, int64(20260301090500), v)

	for _, raw := range []string{"", "2026", "2026030109050x"} {
		_, err := ParseVersion(raw)
		assert.Error(t, err, raw)
	}
}
