package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
)

const (
	maxArgLogLen = 200

	// above the mock source's maximum latency
	slowRequestThreshold = 1500 * time.Millisecond

	toolMetricPrefix = "tool:"
)

// LoggingMiddleware logs every request with its duration. Tool calls are
// logged with the tool name and arguments and timed into collector.
func LoggingMiddleware(logger *slog.Logger, collector *metrics.Collector) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			duration := time.Since(start)

			attrs := []any{
				"method", method,
				"duration_ms", duration.Milliseconds(),
			}

			tool, args := toolCall(req)
			if tool != "" {
				attrs = append(attrs, "tool", tool)
				if args != "" {
					attrs = append(attrs, "args", truncate(args, maxArgLogLen))
				}
				failed := err != nil || isToolError(result)
				if failed {
					collector.RecordFailure(toolMetricPrefix+tool, duration)
				} else {
					collector.RecordTiming(toolMetricPrefix+tool, duration)
				}
			}

			switch {
			case err != nil:
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// toolCall returns the tool name and raw arguments of a tools/call request.
func toolCall(req mcp.Request) (string, string) {
	r, ok := req.(*mcp.CallToolRequest)
	if !ok || r.Params == nil {
		return "", ""
	}
	var args string
	if len(r.Params.Arguments) > 0 {
		args = string(r.Params.Arguments)
	}
	return r.Params.Name, args
}

func isToolError(result mcp.Result) bool {
	r, ok := result.(*mcp.CallToolResult)
	return ok && r != nil && r.IsError
}

// truncate shortens s to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
