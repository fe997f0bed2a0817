package migrate_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/washline-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := fs.Glob(migrate.Migrations(), "*_"+suffix+".sql")
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no %s migration embedded", suffix)
	data, err := fs.ReadFile(migrate.Migrations(), matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestEmbeddedMigrationsLint(t *testing.T) {
	require.NoError(t, migrate.Lint(migrate.Migrations()))
}

func TestCatalogMigrationContainsTables(t *testing.T) {
	content := readMigration(t, "create_catalog")

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS outlets",
		"CREATE TABLE IF NOT EXISTS services",
		"CREATE TABLE IF NOT EXISTS addons",
		"CREATE TABLE IF NOT EXISTS member_tiers",
		"CHECK (pricing_model IN ('by-weight', 'by-piece'))",
		"DROP TABLE IF EXISTS services",
	} {
		require.True(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestPriceRecordsMigrationContainsOverlapGuard(t *testing.T) {
	content := readMigration(t, "create_price_records")

	for _, sub := range []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist",
		"CREATE TABLE IF NOT EXISTS price_records",
		"CONSTRAINT price_records_no_overlap EXCLUDE USING gist",
		"(COALESCE(member_tier, '')) WITH =",
		"daterange(effective_start, effective_end, '[]') WITH &&",
		"CHECK (effective_end IS NULL OR effective_end >= effective_start)",
		"CHECK (price >= 0)",
		"DROP TABLE IF EXISTS price_records",
	} {
		require.True(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}
