package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns rejection_reason into "Rejection Reason".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		// only the first failing field is reported
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		case "max":
			return New(CodeValidation, humanReadableField+" must be at most "+e.Param()+" characters", http.StatusBadRequest)
		case "uuid", "uuid4":
			return New(CodeValidation, humanReadableField+" must be a valid UUID", http.StatusBadRequest)
		case "min", "gte":
			return New(CodeValidation, humanReadableField+" must be at least "+e.Param(), http.StatusBadRequest)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
