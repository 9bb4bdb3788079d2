package serrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseErrorFormatting(t *testing.T) {
	err := NewError("ORG_NOT_FOUND", "organization not found", "")
	require.Equal(t, "ORG_NOT_FOUND: organization not found", err.Error())

	withDetails := err.WithDetails("42")
	require.Equal(t, "ORG_NOT_FOUND: organization not found (42)", withDetails.Error())
	// The original sentinel stays untouched.
	require.Empty(t, err.Details)
}

func TestBaseIsMatchesOnCode(t *testing.T) {
	sentinel := NewError("ORG_HAS_CHILDREN", "organization still has child organizations", "")
	detailed := sentinel.WithDetails("Acme")

	require.True(t, errors.Is(detailed, sentinel))
	require.False(t, errors.Is(detailed, NewError("ORG_NOT_FOUND", "organization not found", "")))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		"Name": &ValidationError{Field: "Name", Message: "Name is required"},
	}
	require.Contains(t, errs.Error(), "Name is required")

	var target ValidationErrors
	require.ErrorAs(t, error(errs), &target)
}
