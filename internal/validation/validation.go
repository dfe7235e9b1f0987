package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"yamdb/internal/entity"

	"github.com/go-playground/validator/v10"
)

const (
	UsernameMaxLength = 150
	EmailMaxLength    = 254
	NameMaxLength     = 256
	SlugMaxLength     = 50
	ReservedUsername  = "me"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a Validator. now is consulted on every call that checks a
// year, so the bound moves with the calendar.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	v.validate.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
		return !strings.EqualFold(fl.Field().String(), ReservedUsername)
	})
	v.validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	v.validate.RegisterValidation("pastyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(v.now().Year())
	})
	v.validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.UserRole(fl.Field().String()).Valid()
	})

	return v
}

// Struct checks s against its `validate` tags and reports every failing
// field in a single ValidationFailed error.
func (v *Validator) Struct(s interface{}) error {
	return v.translate(v.validate.Struct(s), "")
}

// Var checks one value against tag and reports failures under field.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	return v.translate(v.validate.Var(value, tag), field)
}

func (v *Validator) translate(err error, field string) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		fields[name] = append(fields[name], message(fe))
	}
	return entity.ValidationFailed(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return "This list may not be empty."
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("Score must be between %d and %d.", entity.MinScore, entity.MaxScore)
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notme":
		return fmt.Sprintf("Username %q is reserved.", fe.Value())
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "pastyear":
		return "Year cannot be later than the current year."
	case "role":
		return "Role must be one of user, moderator, admin."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
