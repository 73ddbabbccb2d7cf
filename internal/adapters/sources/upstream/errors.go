package upstream

import "errors"

// Sentinel errors returned by Client. Callers treat all of them as "provider unavailable".
var (
	ErrQuotaExhausted = errors.New("upstream daily quota exhausted")
	ErrRequest        = errors.New("upstream request failed")
	ErrStatus         = errors.New("upstream returned non-success status")
	ErrDecode         = errors.New("upstream payload could not be decoded")
)

// Outcome labels a failure for metrics and fallback accounting.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "network"
	}
}
