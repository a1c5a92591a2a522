package validator

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// layer - имя слоя должно быть в каталоге
	_ = validate.RegisterValidation("layer", func(fl validator.FieldLevel) bool {
		_, ok := domain.LookupLayer(fl.Field().String())
		return ok
	})
}

// Validate - валидация структуры, ошибки приводятся к INVALID_REQUEST
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make(map[string]interface{}, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"fields": fields,
		})
	}
	return errors.ErrInvalidRequest
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
