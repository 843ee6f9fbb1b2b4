package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

const (
	defaultOperation  = "query"
	tracerName        = "go-sqlmodel/database"
	maxDBQueryAttrLen = 2000

	opBegin    = "BEGIN"
	opCommit   = "COMMIT"
	opRollback = "ROLLBACK"
)

// Context carries what every tracked operation reports.
type Context struct {
	Logger   logger.Logger
	Vendor   string
	Settings Settings
	Metrics  *Metrics
}

// TrackDBOperation records one completed operation: request counters, a
// span, metrics and a log entry. Failures log at Error except sql.ErrNoRows,
// which is an empty result and logs at Debug.
func TrackDBOperation(ctx context.Context, tc *Context, query string, args []any, start time.Time, rowsAffected int64, err error) {
	if tc == nil || tc.Logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	elapsed := time.Since(start)
	logger.IncrementDBCounter(ctx)
	logger.AddDBElapsed(ctx, elapsed.Nanoseconds())

	operation := extractDBOperation(query)
	recordSpan(ctx, tc.Vendor, operation, query, start, err)
	tc.Metrics.record(ctx, tc.Vendor, operation, elapsed, rowsAffected, err)

	fields := map[string]any{
		"vendor":      tc.Vendor,
		"duration_ms": elapsed.Milliseconds(),
		"query":       TruncateString(query, tc.Settings.MaxQueryLength()),
	}
	if tc.Settings.LogQueryParameters() && len(args) > 0 {
		fields["args"] = SanitizeArgs(args, tc.Settings.MaxQueryLength())
	}
	log := tc.Logger.WithContext(ctx).WithFields(fields)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		log.Debug().Msg("Database operation returned no rows")
	case err != nil:
		log.Error().Err(err).Msg("Database operation error")
	case tc.Settings.isSlow(elapsed):
		log.Warn().Msgf("Slow database operation detected (%s)", elapsed)
	default:
		log.Debug().Msg("Database operation executed")
	}
}

func recordSpan(ctx context.Context, vendor, operation, query string, start time.Time, err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("db.system", normalizeDBVendor(vendor)),
		semconv.DBQueryText(TruncateString(query, maxDBQueryAttrLen)),
	}
	if operation != defaultOperation {
		attrs = append(attrs, semconv.DBOperationName(operation))
	}
	span.SetAttributes(attrs...)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// extractDBOperation returns the lowercased leading SQL verb.
func extractDBOperation(query string) string {
	switch query = strings.TrimSpace(query); query {
	case "":
		return defaultOperation
	case opBegin:
		return "begin"
	case opCommit:
		return "commit"
	case opRollback:
		return "rollback"
	}

	verb, _, _ := strings.Cut(query, " ")
	switch verb = strings.ToLower(verb); verb {
	case "select", "insert", "update", "delete", "create", "drop", "alter", "truncate":
		return verb
	default:
		return defaultOperation
	}
}

// normalizeDBVendor maps vendor identifiers onto OTel db.system values.
func normalizeDBVendor(vendor string) string {
	switch v := strings.ToLower(vendor); v {
	case "postgres", types.PostgreSQL:
		return types.PostgreSQL
	case "sqlite3", types.SQLite:
		return types.SQLite
	case "mssql", types.SQLServer:
		return "microsoft.sql_server"
	case types.Oracle:
		return "oracle.db"
	default:
		return v
	}
}

func extractRowsAffected(result sql.Result, err error) int64 {
	if result == nil || err != nil {
		return 0
	}
	affected, affErr := result.RowsAffected()
	if affErr != nil {
		return 0
	}
	return affected
}

// TruncateString cuts value to maxLen runes, ending in "..." when there is
// room for it. maxLen <= 0 disables truncation.
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	r := []rune(value)
	if len(r) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SanitizeArgs renders args for logging. Byte slices are summarized by
// length and everything else is formatted and truncated to maxLen.
func SanitizeArgs(args []any, maxLen int) []any {
	if len(args) == 0 {
		return nil
	}
	sanitized := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			sanitized[i] = TruncateString(v, maxLen)
		case []byte:
			sanitized[i] = fmt.Sprintf("<bytes len=%d>", len(v))
		case nil:
			sanitized[i] = nil
		default:
			sanitized[i] = TruncateString(fmt.Sprintf("%v", v), maxLen)
		}
	}
	return sanitized
}
