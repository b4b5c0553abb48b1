package exchange

import (
	"errors"
	"fmt"
)

// Canonical error kinds. Every exchange-reported failure is classified
// into exactly one of these; transport failures are never reinterpreted
// and propagate as plain errors.
var (
	ErrAuthentication       = errors.New("authentication failed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidOrder         = errors.New("invalid order")
	ErrOrderNotFound        = errors.New("order not found")
	ErrExchangeNotAvailable = errors.New("exchange not available")
	ErrDDoSProtection       = errors.New("request throttled")
	ErrExchange             = errors.New("exchange error")
	ErrNotSupported         = errors.New("not supported")
	ErrSymbolNotFound       = errors.New("symbol not found")
)

// APIError is a classified exchange failure. Kind is one of the canonical
// sentinels above, Raw the verbatim response body (or local request
// context for validation failures) for diagnosis.
type APIError struct {
	Exchange string
	Code     string
	Message  string
	Kind     error
	Raw      []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %v (code %s): %s", e.Exchange, e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %v: %s", e.Exchange, e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Kind }

// NewAPIError builds an APIError, defaulting the kind to ErrExchange.
func NewAPIError(exchange string, kind error, code, message string, raw []byte) *APIError {
	if kind == nil {
		kind = ErrExchange
	}
	return &APIError{Exchange: exchange, Code: code, Message: message, Kind: kind, Raw: raw}
}

// AsAPIError unwraps a classified exchange failure, if err carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, false
	}
	return apiErr, true
}

// IsRetryable reports whether err is a transient exchange condition worth
// retrying. Terminal kinds (bad credentials, bad orders, missing funds)
// must surface immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDDoSProtection) || errors.Is(err, ErrExchangeNotAvailable)
}
