package usecase

import (
	"github.com/go-playground/validator/v10"
	"pony-express/exception"
)

func validateRequest(validate *validator.Validate, request any) error {
	if err := validate.Struct(request); err != nil {
		return exception.InvalidRequest(err.Error())
	}
	return nil
}
