package services

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMustRegister_PanicsOnInvalidTag(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegister(v, "", isContact)
	})
	assert.Panics(t, func() {
		mustRegister(v, "contact", nil)
	})
}

func TestNewValidator_ContactTag(t *testing.T) {
	var v *validator.Validate
	assert.NotPanics(t, func() { v = newValidator() })

	assert.NoError(t, v.Var("9876543210", "contact"))
	assert.NoError(t, v.Var("asha@example.com", "contact"))
	assert.Error(t, v.Var("98765", "contact"))
	assert.Error(t, v.Var("   ", "notblank"))
}
