package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/cpq_api/internal/models"
)

// RegisterValidators adds the custom binding rules used by request structs
// to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return models.Tier(fl.Field().String()).Valid()
	})
}
