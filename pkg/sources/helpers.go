package sources

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
)

// hashItemID generates a deterministic id from the source key, title and URL.
func hashItemID(sourceKey, title, itemURL string) string {
	sum := sha1.Sum([]byte(sourceKey + "|" + title + "|" + itemURL))
	return hex.EncodeToString(sum[:])
}

// responseSnippet returns a truncated snippet of the response body for error
// messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// parseTimestamp coerces the loosely typed timestamp values sources emit.
// Numbers are unix seconds, or milliseconds when larger than 1e12. Strings
// go through dateparse. Anything unusable falls back to now.
func parseTimestamp(v any, now time.Time) time.Time {
	switch t := v.(type) {
	case nil:
		return now
	case time.Time:
		if t.IsZero() {
			return now
		}
		return t
	case *time.Time:
		if t == nil || t.IsZero() {
			return now
		}
		return *t
	case int:
		return fromUnix(float64(t))
	case int64:
		return fromUnix(float64(t))
	case float64:
		return fromUnix(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return now
		}
		if parsed, err := dateparse.ParseAny(s); err == nil {
			return parsed
		}
		return now
	default:
		return now
	}
}

func fromUnix(v float64) time.Time {
	if v > 1e12 { // millisecond precision
		return time.Unix(int64(v)/1000, 0)
	}
	return time.Unix(int64(v), 0)
}

// buildItem assembles a NewsItem, dropping entries without a title or URL.
func buildItem(cfg SourceConfig, title, itemURL string, ts any, rank int, now time.Time) (domain.NewsItem, bool) {
	title = strings.TrimSpace(title)
	itemURL = strings.TrimSpace(itemURL)
	if title == "" || itemURL == "" {
		return domain.NewsItem{}, false
	}

	return domain.NewsItem{
		ID:        hashItemID(cfg.Key, title, itemURL),
		SourceKey: cfg.Key,
		Source:    cfg.Name,
		Title:     title,
		URL:       itemURL,
		Timestamp: parseTimestamp(ts, now),
		Rank:      rank,
	}, true
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return baseURL.ResolveReference(parsed).String()
}

// statusError renders a non-2xx response as an error with a body snippet.
func statusError(sourceKey string, status int, body []byte) error {
	return fetchErr("source %s returned status %d body: %s", sourceKey, status, responseSnippet(body))
}

// sourceError tags an error with the failure kind the registry reports.
type sourceError struct {
	kind domain.FailureKind
	err  error
}

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

func configErr(format string, args ...any) error {
	return &sourceError{kind: domain.FailureConfig, err: fmt.Errorf(format, args...)}
}

func fetchErr(format string, args ...any) error {
	return &sourceError{kind: domain.FailureFetch, err: fmt.Errorf(format, args...)}
}

func extractErr(format string, args ...any) error {
	return &sourceError{kind: domain.FailureExtract, err: fmt.Errorf(format, args...)}
}

// failureKind classifies an adapter error, defaulting to a fetch failure.
func failureKind(err error) domain.FailureKind {
	var se *sourceError
	if errors.As(err, &se) {
		return se.kind
	}
	return domain.FailureFetch
}
