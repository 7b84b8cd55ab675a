package analyses

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNotFound indicates a missing analysis record.
var ErrNotFound = errors.New("not found")

// Kind is the short machine-oriented label attached to failure envelopes.
type Kind string

const (
	KindMalformedRequest    Kind = "malformed_request"
	KindMissingFile         Kind = "missing_file"
	KindMissingWallet       Kind = "missing_wallet"
	KindUnsupportedFileType Kind = "unsupported_file_type"
	KindFileTooLarge        Kind = "file_too_large"
	KindNotHealthDocument   Kind = "not_health_document"
	KindAnalysisParse       Kind = "analysis_parse_error"
	KindSchemaMismatch      Kind = "analysis_schema_mismatch"
	KindPersistence         Kind = "persistence_error"
	KindReward              Kind = "reward_error"
	KindUpstreamCredential  Kind = "upstream_credential_error"
	KindUpstreamQuota       Kind = "upstream_quota_error"
	KindInvalidFile         Kind = "invalid_file"
	KindInternal            Kind = "internal_error"
)

// Error carries everything the failure envelope needs: label, HTTP status,
// human-readable details, and optional structured metadata.
type Error struct {
	Kind    Kind
	Status  int
	Details string
	Meta    map[string]any
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Details
}

func newError(kind Kind, status int, details string) *Error {
	return &Error{Kind: kind, Status: status, Details: details}
}

// upstreamRules maps substrings of upstream error text to specific error
// kinds. Evaluated in order; heuristic, not authoritative.
var upstreamRules = []struct {
	pattern string
	kind    Kind
	details string
}{
	{"API key", KindUpstreamCredential, "AI service configuration error. Please contact support."},
	{"quota", KindUpstreamQuota, "AI service quota exceeded. Please try again in a few minutes."},
	{"invalid", KindInvalidFile, "The uploaded file could not be processed. Please upload a valid document."},
}

// ClassifyUpstream maps an arbitrary pipeline error to an envelope error. A
// typed *Error passes through unchanged; anything else is matched against the
// upstream rules and falls back to a generic internal error.
func ClassifyUpstream(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	msg := err.Error()
	for _, rule := range upstreamRules {
		if strings.Contains(msg, rule.pattern) {
			return newError(rule.kind, http.StatusInternalServerError, rule.details)
		}
	}
	return newError(KindInternal, http.StatusInternalServerError, "Failed to analyze document. Please try again.")
}
