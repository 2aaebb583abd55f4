package approval

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/viant/reviewflow/errs"
)

// MinQualityRating and MaxQualityRating bound admin quality ratings.
const (
	MinQualityRating = 1
	MaxQualityRating = 10
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func requireValue(op, name, value string) error {
	if err := validate.Var(strings.TrimSpace(value), "required"); err != nil {
		return errs.Validation(op, "%s is required", name)
	}
	return nil
}

func checkRating(op string, rating *int) error {
	if rating == nil {
		return nil
	}
	if err := validate.Var(*rating, "min=1,max=10"); err != nil {
		return errs.Validation(op, "qualityRating must be between %d and %d, got %d", MinQualityRating, MaxQualityRating, *rating)
	}
	return nil
}
