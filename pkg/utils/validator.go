package utils

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"todo-back/domain/dto"
	"todo-back/domain/models"
	"todo-back/pkg/validation"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		if err := validate.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
			return models.TaskStatus(fl.Field().String()).Valid()
		}); err != nil {
			panic(fmt.Sprintf("register taskstatus validation: %v", err))
		}
		validate.RegisterStructValidation(taskRequestStructLevel, dto.TaskRequest{})
	})
	return validate
}

// taskRequestStructLevel checks dataConclusao against the dataCriacao sent in the same body.
func taskRequestStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.TaskRequest)
	if req.CreatedAt == nil {
		return
	}
	err := validation.DateGreaterThan("dataConclusao", req.CompletedAt, "dataCriacao", func() time.Time {
		return *req.CreatedAt
	})
	if err != nil {
		sl.ReportError(req.CompletedAt, "dataConclusao", "CompletedAt", "datamaiorque", "dataCriacao")
	}
}

func ValidateStruct(s any) error {
	return getValidator().Struct(s)
}

func GetValidationErrors(err error) []ValidationError {
	var out []ValidationError
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "taskstatus":
		return fmt.Sprintf("%s must be one of Pendente, EmProgresso, Concluida", fe.Field())
	case "datamaiorque":
		return (&validation.DateOrderError{Field: fe.Field(), Reference: fe.Param()}).Error()
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
