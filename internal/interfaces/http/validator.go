package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los errores reportan el nombre JSON del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bindBody parsea el body JSON y lo valida. Si falla, ya escribió la respuesta 400
// y devuelve false.
func bindBody(c *fiber.Ctx, dest any) (bool, error) {
	if err := c.BodyParser(dest); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), rootNamespace(fe.Namespace()))
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s es requerido", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s debe ser uno de [%s]", field, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s debe tener al menos %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s excede el máximo de %s", field, fe.Param()))
		case "nefield":
			msgs = append(msgs, fmt.Sprintf("%s debe ser distinto de %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s no cumple %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// rootNamespace devuelve "Struct." para recortarlo del namespace del error.
func rootNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}
