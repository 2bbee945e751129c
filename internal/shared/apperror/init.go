package apperror

import (
	"fmt"
	"reflect"
	"strings"

	"go-incident-tracker/internal/pointsrule"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init mendaftarkan nama field json dan tag kustom ke validator bawaan Gin.
func Init() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("apperror: unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Mengambil nama dari tag json (contoh: `json:"employee_id"`)
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("incident_type", validateIncidentType); err != nil {
		return fmt.Errorf("apperror: register incident_type: %w", err)
	}
	return nil
}

func validateIncidentType(fl validator.FieldLevel) bool {
	return pointsrule.IsKnownType(pointsrule.IncidentType(fl.Field().String()))
}
