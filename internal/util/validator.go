package util

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"

	"github.com/staffhours/backend/internal/pkg/workday"
)

// Validator checks decoded payloads and explains failures in English.
type Validator struct {
	*validator.Validate

	trans ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterValidation("isodate", isoDate)
	validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}
	err := validate.RegisterTranslation("isodate", trans, func(ut ut.Translator) error {
		return ut.Add("isodate", "{0} must be a calendar day formatted as YYYY-MM-DD", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("isodate", fe.Field())
		return t
	})
	if err != nil {
		log.Warn().Err(err).Str("tag", "isodate").Msg("could not register translation")
	}

	return &Validator{Validate: validate, trans: trans}
}

// Explain renders a validation failure as one line.
func (v *Validator) Explain(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return strings.Join(msgs, "; ")
}

// isoDate accepts calendar days in workday.Layout.
func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(workday.Layout, fl.Field().String())
	return err == nil
}

func nullIntValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Int); ok {
		return valuer.Int64
	}

	return nil
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok {
		return valuer.String
	}

	return nil
}
