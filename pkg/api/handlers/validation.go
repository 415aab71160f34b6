// Package handlers implements the gin handlers of the shim API. Each handler
// delegates to an adapter interface and maps adapter errors to HTTP status
// codes.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
)

// RegisterValidators installs the custom binding tags used by request
// bodies on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return v.RegisterValidation("power_action", func(fl validator.FieldLevel) bool {
		return models.PowerAction(fl.Field().String()).Valid()
	})
}
