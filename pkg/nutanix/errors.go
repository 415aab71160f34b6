package nutanix

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnreachable is returned when Prism Central could not be reached at the
// transport level (DNS, connect, TLS, reset, timeout).
var ErrUnreachable = errors.New("nutanix: remote host unreachable")

// APIError is a non-2xx answer from Prism Central.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("nutanix: HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("nutanix: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from Prism Central.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type appMessage struct {
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
}

type errorResponse struct {
	Data struct {
		Error json.RawMessage `json:"error"`
	} `json:"data"`
}

type schemaValidationError struct {
	Message                 string `json:"message"`
	ValidationErrorMessages []struct {
		Message       string `json:"message"`
		AttributePath string `json:"attributePath"`
	} `json:"validationErrorMessages"`
}

// newAPIError decodes the v4 error envelope. Bodies that do not follow the
// envelope keep the HTTP status text as message.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data.Error) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "{") {
			apiErr.Message = text
		}
		return apiErr
	}

	var messages []appMessage
	if err := json.Unmarshal(envelope.Data.Error, &messages); err == nil && len(messages) > 0 {
		parts := make([]string, 0, len(messages))
		for _, m := range messages {
			if m.Message != "" {
				parts = append(parts, m.Message)
			}
		}
		if len(parts) > 0 {
			apiErr.Message = strings.Join(parts, "; ")
		}
		apiErr.Code = messages[0].Code
		return apiErr
	}

	var validation schemaValidationError
	if err := json.Unmarshal(envelope.Data.Error, &validation); err == nil {
		parts := []string{}
		if validation.Message != "" {
			parts = append(parts, validation.Message)
		}
		for _, v := range validation.ValidationErrorMessages {
			if v.AttributePath != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", v.AttributePath, v.Message))
			} else if v.Message != "" {
				parts = append(parts, v.Message)
			}
		}
		if len(parts) > 0 {
			apiErr.Message = strings.Join(parts, "; ")
		}
	}
	return apiErr
}
