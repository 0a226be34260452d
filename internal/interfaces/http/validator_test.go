package http

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRule(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("password", passwordRule))

	valid := []string{"password1", "a1234567", "longerPassword99"}
	for _, p := range valid {
		assert.NoError(t, v.Var(p, "password"), p)
	}

	invalid := []string{
		"short1",    // under eight characters
		"passwords", // no digit
		"12345678",  // no letter
	}
	for _, p := range invalid {
		assert.Error(t, v.Var(p, "password"), p)
	}
}
