package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	return entry
}

func TestErrorCarriesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "washline", Level: ParseLevel("debug"), Output: buf, Format: FormatJSON})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithOutletID(ctx, "outlet-1")
	ctx = log.WithFields(ctx, map[string]any{"service_id": "svc-9"})
	log.Error(ctx, "price_record.create_failed", errors.New("boom"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "washline", entry["service"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "outlet-1", entry["outlet_id"])
	assert.Equal(t, "svc-9", entry["service_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["stack"])
}

func TestFieldsDoNotLeakIntoParentContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "washline", Output: buf, Format: FormatJSON})

	parent := log.WithUserID(context.Background(), "admin-1")
	_ = log.WithActorRole(parent, "admin")
	log.Info(parent, "hello")

	entry := decodeLine(t, buf)
	assert.Equal(t, "admin-1", entry["user_id"])
	assert.NotContains(t, entry, "actor_role")
}

func TestWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	New(Options{Output: buf, Format: FormatJSON, WarnStack: true}).Warn(context.Background(), "warny")
	assert.Contains(t, decodeLine(t, buf), "stack")

	buf.Reset()
	New(Options{Output: buf, Format: FormatJSON}).Warn(context.Background(), "warny")
	assert.NotContains(t, decodeLine(t, buf), "stack")
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: ParseLevel("info"), Output: buf, Format: FormatJSON})
	log.Debug(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
}

func TestNilLoggerIsSilent(t *testing.T) {
	var log *Logger
	ctx := log.WithRequestID(context.Background(), "req-1")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		log.Info(ctx, "ignored")
		log.Warn(ctx, "ignored")
		log.Error(ctx, "ignored", errors.New("x"))
	})
	assert.NotPanics(t, func() { Nop().Error(context.Background(), "ignored", nil) })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
}
