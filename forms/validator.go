// Package forms turns raw submission fields into records ready for storage.
// Validation is all-or-nothing: either every field passes and a record is
// returned, or every failing field is reported at once.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/models"
)

// FailureNotice is shown alongside the per-field messages.
const FailureNotice = "Please fill out all required fields correctly."

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	linkedInPattern = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/in/[A-Za-z0-9-]+/?$`)
)

// Techs lists the accepted values of a consultation's tech field.
var Techs = []string{"Blockchain", "MERN Stack", "Other"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must(v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}))
	must(v.RegisterValidation("linkedin", func(fl validator.FieldLevel) bool {
		return linkedInPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("maxwords", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return WordCount(fl.Field().String()) <= limit
	}))
	must(v.RegisterValidation("purpose", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseContactPurpose(fl.Field().String())
		return ok
	}))
	must(v.RegisterValidation("tech", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, t := range Techs {
			if s == t {
				return true
			}
		}
		return false
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// WordCount counts whitespace separated tokens in the trimmed text.
func WordCount(text string) int {
	return len(strings.Fields(strings.TrimSpace(text)))
}

// check runs the struct validation on form and converts failures into
// a field -> message map.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe, labelOf(t, fe.StructField()))
	}
	return errs.NewValidationError(fields)
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "basicemail":
		return "Invalid email address."
	case "linkedin":
		return "Invalid LinkedIn profile URL."
	case "maxwords":
		return fmt.Sprintf("%s must be %s words or less.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less.", label, fe.Param())
	case "purpose":
		return "Invalid purpose."
	case "tech":
		return "Invalid tech."
	case "datetime":
		return fmt.Sprintf("Invalid %s.", lowerFirst(label))
	default:
		return fmt.Sprintf("Invalid %s.", label)
	}
}

// labelOf prefers the `label` struct tag and falls back to the Go field name.
func labelOf(t reflect.Type, field string) string {
	if t.Kind() != reflect.Struct {
		return field
	}
	if f, ok := t.FieldByName(field); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return field
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
