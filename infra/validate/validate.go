package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps go-playground/validator with English messages keyed by json field names
type Validator struct {
	*validator.Validate
	trans ut.Translator
}

type FieldErrors map[string]string

// ValidationErrors collects the first message reported for each field
type ValidationErrors struct {
	errors FieldErrors
}

func (v *ValidationErrors) AddFieldError(key, message string) {
	if v.errors == nil {
		v.errors = make(FieldErrors)
	}

	if _, ok := v.errors[key]; ok {
		return
	}

	v.errors[key] = message
}

func (v *ValidationErrors) Error() string {
	if len(v.errors) == 0 {
		return "{}"
	}

	var builder strings.Builder
	_ = json.NewEncoder(&builder).Encode(v.errors)

	return strings.TrimSpace(builder.String())
}

func (v *ValidationErrors) FieldErrors() FieldErrors {
	return v.errors
}

// First returns the alphabetically first field and its message
func (v *ValidationErrors) First() (string, string) {
	if len(v.errors) == 0 {
		return "", ""
	}

	keys := make([]string, 0, len(v.errors))
	for key := range v.errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys[0], v.errors[keys[0]]
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		fieldTag := fld.Tag.Get("json")
		if fieldTag == "" || fieldTag == "-" {
			return fld.Name
		}
		return strings.Split(fieldTag, ",")[0]
	})

	registerCustomErrorMessages(validate, trans)

	return &Validator{
		Validate: validate,
		trans:    trans,
	}
}

// Struct validates val and returns nil when every rule passes
func (v *Validator) Struct(val any) *ValidationErrors {
	err := v.Validate.Struct(val)
	if err == nil {
		return nil
	}

	validationErrors := &ValidationErrors{}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		validationErrors.AddFieldError("_", err.Error())
		return validationErrors
	}

	for _, entry := range fieldErrs {
		validationErrors.AddFieldError(entry.Field(), entry.Translate(v.trans))
	}

	return validationErrors
}

func registerCustomErrorMessages(validate *validator.Validate, trans ut.Translator) {
	_ = validate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	_ = validate.RegisterTranslation("email", trans, func(ut ut.Translator) error {
		return ut.Add("email", "{0} must be a valid email address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("email", fe.Field())
		return t
	})

	_ = validate.RegisterTranslation("iso4217_loose", trans, func(ut ut.Translator) error {
		return ut.Add("iso4217_loose", "{0} must be a 3-letter currency code", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("iso4217_loose", fe.Field())
		return t
	})

	_ = validate.RegisterValidation("iso4217_loose", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
		return true
	})
}
