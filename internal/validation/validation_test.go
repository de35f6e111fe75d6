package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Priority string  `json:"priority" validate:"omitempty,oneof=LOW HIGH"`
	Target   float64 `json:"targetValue" validate:"gt=0"`
}

func TestValidateStructPasses(t *testing.T) {
	fields, err := ValidateStruct(&signup{Name: "Ada", Email: "ada@example.com", Target: 1})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	fields, err := ValidateStruct(&signup{Name: "A", Email: "nope", Priority: "MEH"})
	require.NoError(t, err)
	require.Len(t, fields, 4)

	byField := map[string]FieldError{}
	for _, f := range fields {
		byField[f.Field] = f
	}
	assert.Equal(t, "min", byField["name"].Tag)
	assert.Equal(t, "name must be at least 2 characters", byField["name"].Message)
	assert.Equal(t, "email", byField["email"].Tag)
	assert.Equal(t, "oneof", byField["priority"].Tag)
	assert.Equal(t, "gt", byField["targetValue"].Tag)
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	_, err := ValidateStruct(42)
	assert.Error(t, err)
}
