package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/sports-edge/internal/models"
)

// EventFeed defines the interface for fetching live and scheduled events from an external provider
type EventFeed interface {
	// FetchEvents retrieves the current event snapshots for every configured sport
	FetchEvents(ctx context.Context) ([]models.Event, error)

	// FetchSport retrieves the current event snapshots for one sport
	FetchSport(ctx context.Context, sport string) ([]models.Event, error)

	// Name returns the name of the feed
	Name() string
}

// DataSourceError represents errors from event feed operations
type DataSourceError struct {
	Source  string // Feed name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeUnsupportedSport  = "unsupported_sport"
	ErrCodeUnknown           = "unknown"
)

// ErrCircuitOpen is returned while the client refuses requests after repeated failures
var ErrCircuitOpen = errors.New("circuit breaker open")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the code from a DataSourceError anywhere in err's chain
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
