package project

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/placement/core"
)

var (
	statusTag  = "projectstatus"
	statusText = "invalid project status"

	endsAfterStartsTag  = "endsafterstarts"
	endsAfterStartsText = "the project must end after it starts"
)

// InitValidators registers the project validations on v.
func InitValidators(v *core.Validator) {
	_ = v.Validate.RegisterValidation(statusTag, statusValidation)
	v.RegisterCustomTranslation(statusTag, statusText)

	v.Validate.RegisterStructValidation(newProjectStructValidation, NewProject{})
	v.RegisterCustomTranslation(endsAfterStartsTag, endsAfterStartsText)
}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// statusValidation checks that the provided status is one of AllStatuses
func statusValidation(fl validator.FieldLevel) bool {
	if status, ok := fl.Field().Interface().(string); ok {
		return IsValidStatus(status)
	}
	return false
}

// newProjectStructValidation does NewProject's struct level validation
func newProjectStructValidation(sl validator.StructLevel) {
	if np, ok := sl.Current().Interface().(NewProject); ok {
		if np.StartsAt.Valid && np.EndsAt.Valid && !np.EndsAt.Time.After(np.StartsAt.Time) {
			sl.ReportError(np.EndsAt, "ends_at", "EndsAt", endsAfterStartsTag, "")
		}
	}
}
