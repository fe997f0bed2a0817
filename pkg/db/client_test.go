package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/angelmondragon/washline-backend/pkg/logger"
)

type outletRow struct {
	ID   int
	Code string
}

func newTestClient(t *testing.T, cfg config.DBConfig, logg *logger.Logger) *Client {
	t.Helper()
	client, err := Open(sqlite.Open("file::memory:"), cfg, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&outletRow{}))
	return client
}

func countOutlets(t *testing.T, client *Client) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&outletRow{}).Count(&count).Error)
	return count
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	client := newTestClient(t, config.DBConfig{MaxOpenConns: 1}, nil)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&outletRow{Code: "JKT-01"}).Error
	}))
	assert.Equal(t, int64(1), countOutlets(t, client))

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&outletRow{Code: "JKT-02"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, int64(1), countOutlets(t, client))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := newTestClient(t, config.DBConfig{MaxOpenConns: 1}, nil)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			tx.Create(&outletRow{Code: "BDG-01"})
			panic("mid-transaction")
		})
	})
	assert.Equal(t, int64(0), countOutlets(t, client))
}

func TestPing(t *testing.T) {
	client := newTestClient(t, config.DBConfig{MaxOpenConns: 1}, nil)
	require.NoError(t, client.Ping(context.Background()))
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	client := newTestClient(t, config.DBConfig{MaxOpenConns: 1, SlowQuery: time.Nanosecond}, logg)
	buf.Reset()

	require.NoError(t, client.DB().Create(&outletRow{Code: "SBY-01"}).Error)
	assert.Contains(t, buf.String(), "db.slow_query")

	buf.Reset()
	err := client.DB().Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "db.query_failed")

	buf.Reset()
	var row outletRow
	err = client.DB().Where("code = ?", "nope").First(&row).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "db.query_failed")
}
