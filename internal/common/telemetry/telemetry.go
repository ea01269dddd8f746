// File path: internal/common/telemetry/telemetry.go

// Package telemetry publishes generation counters through expvar and offers
// lightweight log-based spans around gateway calls.
package telemetry

import (
	"context"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/b08x/script-craft-v2/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	generationTotal    *expvar.Map
	generationFailures *expvar.Map
	gatewayLatencyMS   *expvar.Int
	gatewayCallsTotal  *expvar.Int
	ingestBatchTotal   *expvar.Int
	ingestDocsTotal    *expvar.Int
	ingestDocsFailed   *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		generationTotal = expvar.NewMap("scriptcraft_generation_total")
		generationFailures = expvar.NewMap("scriptcraft_generation_failures")
		gatewayLatencyMS = expvar.NewInt("scriptcraft_gateway_latency_ms")
		gatewayCallsTotal = expvar.NewInt("scriptcraft_gateway_calls_total")
		ingestBatchTotal = expvar.NewInt("scriptcraft_ingest_batches_total")
		ingestDocsTotal = expvar.NewInt("scriptcraft_ingest_docs_total")
		ingestDocsFailed = expvar.NewInt("scriptcraft_ingest_docs_failed")
	})
}

// StartSpan attaches a named timing span to the context and returns a
// finish function that logs the duration with any extra attributes.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// SpanDuration reports how long the span on ctx has been running.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}

// RecordGeneration counts one generation operation by kind, such as
// "script", "next-line" or "revise".
func RecordGeneration(kind string, failed bool) {
	ensureInit()
	key := normalizeKey(kind)
	generationTotal.Add(key, 1)
	if failed {
		generationFailures.Add(key, 1)
	}
}

// RecordGatewayCall accumulates call counts and latency across providers.
func RecordGatewayCall(duration time.Duration) {
	ensureInit()
	gatewayCallsTotal.Add(1)
	if duration > 0 {
		gatewayLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordIngestBatch counts one upload batch and its per-document outcomes.
func RecordIngestBatch(docs, failed int) {
	ensureInit()
	if docs <= 0 {
		return
	}
	ingestBatchTotal.Add(1)
	ingestDocsTotal.Add(int64(docs))
	if failed > 0 {
		ingestDocsFailed.Add(int64(failed))
	}
}

func normalizeKey(kind string) string {
	key := strings.TrimSpace(strings.ToLower(kind))
	if key == "" {
		return "unknown"
	}
	return key
}
