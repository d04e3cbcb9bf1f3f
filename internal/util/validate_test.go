package util

import (
	"testing"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin viewer"`
	Note  string `form:"note" validate:"max=5"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	err := ValidateStruct(&signup{Email: "nope", Role: "owner", Note: "too long"})
	require.Error(t, err)

	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, e.Kind)
	assert.Equal(t, map[string]string{
		"email": "must be a valid email address",
		"role":  "must be one of: admin viewer",
		"note":  "must be at most 5",
	}, e.Fields)
}

func TestValidateStructPasses(t *testing.T) {
	assert.NoError(t, ValidateStruct(&signup{Email: "a@b.co", Role: "viewer"}))
}
