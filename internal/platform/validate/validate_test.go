// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Cinemateca", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_OneOf checks the enumerated-value rule used for gender,
role, status, and classification fields.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("role", "admin", "normal", "admin")
	assert.False(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.OneOf("role", "root", "normal", "admin")
	assert.True(t, v2.HasErrors())
}

/*
TestValidator_Birthday covers the two temporal rules applied to the
birthday field: it must lie in the past and within a plausible age.
*/
func TestValidator_Birthday(t *testing.T) {
	now := time.Now()

	v := &validate.Validator{}
	v.PastDate("birthday", now.AddDate(1, 0, 0))
	assert.True(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.PastDate("birthday", now.AddDate(-200, 0, 0)).
		MaxAgeYears("birthday", now.AddDate(-200, 0, 0), 120)
	require.Error(t, v2.Err())
	ae := apperr.As(v2.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 1)

	v3 := &validate.Validator{}
	v3.PastDate("birthday", now.AddDate(-30, 0, 0)).
		MaxAgeYears("birthday", now.AddDate(-30, 0, 0), 120)
	assert.NoError(t, v3.Err())
}

/*
TestValidator_FloatRange exercises the rating bounds rule.
*/
func TestValidator_FloatRange(t *testing.T) {
	v := &validate.Validator{}
	v.FloatRange("rating", 7.5, 0, 10)
	assert.False(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.FloatRange("rating", 10.1, 0, 10)
	assert.True(t, v2.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("firstName", "Diego").
		MinLen("firstName", "Diego", 1).
		MaxLen("firstName", "Diego", 100).
		Email("email", "diego@cinemateca.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("firstName", "").      // Fails
		MinLen("password", "a", 8).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
