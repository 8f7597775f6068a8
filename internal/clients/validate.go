package clients

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) UserMessage() string {
	return "Please check: " + strings.Join(e.Fields, ", ")
}

// Validate checks a request value against its validate tags.
func Validate(v any) error {
	return validateRequest(v)
}

func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return &ValidationError{Fields: fields}
	}
	// non-struct values are not validated
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return nil
	}
	return err
}

// decodeJSON is the single decoding boundary for response bodies. An empty
// body decodes to the zero value; a body that is not JSON is an error.
func decodeJSON(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
