package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilLoggerTolerated(t *testing.T) {
	// Every helper must be a no-op on a nil logger.
	LogBootstrap(nil)
	LogInstantTransition(nil, "start", "t1")
	LogDuplicateMarker(nil, "t1", "inflight")
	LogScan(nil, 3, 1.5)
	LogStrayEntry(nil, "debug-dump.txt")
	LogCleanup(nil, "t1")
	LogCleanupError(nil, "t1", "t1.inflight", errors.New("boom"))

	assert.Nil(t, EnrichLogger(nil, "/data/ckp_meta", "coordinator"))
}

func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	enriched := EnrichLogger(logger, "/data/ckp_meta", "worker")
	enriched.Info("polling")

	out := buf.String()
	assert.Contains(t, out, "dir=/data/ckp_meta")
	assert.Contains(t, out, "role=worker")
}

func TestLogHelpers_EmitExpectedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogInstantTransition(logger, "commit", "t1")
	assert.Contains(t, buf.String(), "op=commit")
	assert.Contains(t, buf.String(), "instant=t1")

	buf.Reset()
	LogCleanupError(logger, "t1", "t1.inflight", errors.New("disk full"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "marker=t1.inflight")
	assert.Contains(t, buf.String(), "disk full")

	buf.Reset()
	LogScan(logger, 3, 0.5)
	assert.Contains(t, buf.String(), "messages=3")
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed, float64(4))
}
