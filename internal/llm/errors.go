package llm

import "fmt"

// ServiceError is a non-2xx answer from the summarization service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("summarization service returned HTTP %d: %s", e.StatusCode, truncateBody(e.Body))
}

// HTTPStatusCode makes ServiceError classifiable by ClassifyError.
func (e *ServiceError) HTTPStatusCode() int {
	return e.StatusCode
}

// InvalidResponseError is a successful answer that holds no usable message.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return "invalid response from summarization service: " + e.Reason
}

// TransportError covers failures before a response was read: network,
// timeout and cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("summarization request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func truncateBody(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
