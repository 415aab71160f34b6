package shim

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// Error kinds. Every error returned by an adapter matches exactly one of
// them with errors.Is.
var (
	// ErrRemoteUnavailable: Prism Central could not be reached, or answered
	// with a server error after retries.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrInvalidResponse: a payload lacked a field treated as required.
	ErrInvalidResponse = models.ErrInvalidResponse
	// ErrInvalidArgument: the caller supplied an unknown action or a
	// malformed identifier. No remote call was made.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRemoteRejected: Prism Central refused the request (for example,
	// deleting a running VM). The vendor message is passed through.
	ErrRemoteRejected = errors.New("rejected by remote")
	// ErrNotFound is the RemoteRejected case of a missing resource.
	ErrNotFound = errors.New("not found")
)

// Error carries the kind, the failed operation and, when known, the
// resource it was about.
type Error struct {
	Kind       error
	Op         string
	ResourceID string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.ResourceID != "" {
		msg = fmt.Sprintf("%s %s", msg, e.ResourceID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Kind)
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrNotFound {
		errs = append(errs, ErrRemoteRejected)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Message is the text suitable for API callers: the vendor message for
// remote rejections, otherwise the underlying error text.
func (e *Error) Message() string {
	var apiErr *nutanix.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// StatusCode returns the vendor HTTP status behind the error, or 0.
func (e *Error) StatusCode() int {
	var apiErr *nutanix.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func invalidArgument(op, id string, err error) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, ResourceID: id, Err: err}
}

// classify assigns a kind to an error coming out of the nutanix client or a
// projector.
func classify(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var shimErr *Error
	if errors.As(err, &shimErr) {
		return err
	}

	var kind error
	var apiErr *nutanix.APIError
	switch {
	case errors.Is(err, models.ErrInvalidResponse):
		kind = ErrInvalidResponse
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			kind = ErrNotFound
		case apiErr.StatusCode >= 500:
			kind = ErrRemoteUnavailable
		default:
			kind = ErrRemoteRejected
		}
	case errors.Is(err, nutanix.ErrUnreachable):
		kind = ErrRemoteUnavailable
	default:
		// undecodable bodies and similar protocol faults
		kind = ErrInvalidResponse
	}
	return &Error{Kind: kind, Op: op, ResourceID: id, Err: err}
}
