package generation

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means the upstream envelope could not be decoded or
// decoded to no text payload.
var ErrMalformedResponse = errors.New("upstream response contains no text")

// UpstreamError is a non-success answer (or transport failure, including
// timeouts) from the generation service. StatusCode is 0 when the request
// never completed.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream error: %s", e.Body)
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}
