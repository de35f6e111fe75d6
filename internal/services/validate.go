package services

import (
	"strings"

	"studyos/internal/validation"
)

// validateRequest runs struct tags and maps failures to a 400 with field details
func validateRequest(req interface{}) error {
	fieldErrs, err := validation.ValidateStruct(req)
	if err != nil {
		return NewValidationError("invalid request", err)
	}
	if len(fieldErrs) == 0 {
		return nil
	}

	fields := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, FieldError{
			Field:   fe.Field,
			Value:   fe.Value,
			Message: fe.Message,
			Code:    fe.Tag,
		})
	}
	return NewDetailedValidationError("validation failed", fields)
}

// checkTitleUpdate rejects a patched title that is empty once trimmed
func checkTitleUpdate(title *string) error {
	if title != nil && strings.TrimSpace(*title) == "" {
		return InvalidInputError("title", "must not be blank")
	}
	return nil
}
