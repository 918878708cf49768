package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AddsRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", &buf)

	ctx := WithRequestID(context.Background(), "req-123")
	log.InfoContext(ctx, "hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "v", line["k"])
}

func TestNew_ProdDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	New("prod", &buf).Debug("noise")
	assert.Empty(t, buf.String())

	buf.Reset()
	New("dev", &buf).Debug("noise")
	assert.Contains(t, buf.String(), "noise")
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
