package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// sensitiveFields are matched as substrings against lowercased form
// keys, JSON keys, query parameters and header names. Matches are
// replaced before anything reaches the log.
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"key",
	"session",
	"cookie",
	"authorization",
	"credential",
}

const (
	maskedValue   = "[FILTERED]"
	maxLoggedBody = 2048
)

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := TraceID(r.Context())

			logRequest(logger, r, traceID)

			ww := &responseWriter{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(ww, r)

			logResponse(logger, ww, time.Since(start), traceID)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status and body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func logRequest(logger *slog.Logger, r *http.Request, traceID string) {
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	logger.Info("incoming request",
		"trace_id", traceID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", maskValues(r.URL.Query()),
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", maskHeaders(r.Header),
		"body", maskBody(r.Header.Get("Content-Type"), bodyBytes),
	)
}

func logResponse(logger *slog.Logger, rw *responseWriter, duration time.Duration, traceID string) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	logLevel := slog.LevelInfo
	if statusCode >= 500 {
		logLevel = slog.LevelError
	} else if statusCode >= 400 {
		logLevel = slog.LevelWarn
	}

	logger.Log(nil, logLevel, "response",
		"trace_id", traceID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.body.Len(),
		"body", maskBody("application/json", rw.body.Bytes()),
	)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// maskValues flattens form or query values, replacing any whose key
// matches the sensitive list.
func maskValues(values url.Values) map[string]string {
	masked := make(map[string]string, len(values))
	for name, vals := range values {
		if isSensitive(name) {
			masked[name] = maskedValue
		} else {
			masked[name] = strings.Join(vals, ", ")
		}
	}
	return masked
}

func maskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for name, vals := range headers {
		if isSensitive(name) {
			masked[name] = maskedValue
		} else {
			masked[name] = strings.Join(vals, ", ")
		}
	}
	return masked
}

// maskBody renders a loggable version of a request or response body:
// form bodies and JSON bodies are masked key by key, anything else is
// dropped wholesale when it looks sensitive.
func maskBody(contentType string, body []byte) interface{} {
	if len(body) == 0 {
		return ""
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/x-www-form-urlencoded" {
		if values, err := url.ParseQuery(string(body)); err == nil {
			return maskValues(values)
		}
	}

	var jsonData interface{}
	if err := json.Unmarshal(body, &jsonData); err == nil {
		masked, err := json.Marshal(maskJSON(jsonData))
		if err != nil {
			return maskedValue
		}
		return truncate(string(masked))
	}

	raw := string(body)
	if isSensitive(raw) {
		return maskedValue
	}
	return truncate(raw)
}

// maskJSON recursively replaces sensitive object fields.
func maskJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		masked := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				masked[key] = maskedValue
			} else {
				masked[key] = maskJSON(value)
			}
		}
		return masked
	case []interface{}:
		masked := make([]interface{}, len(v))
		for i, item := range v {
			masked[i] = maskJSON(item)
		}
		return masked
	default:
		return v
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...(truncated)"
}
