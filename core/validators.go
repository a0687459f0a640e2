package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	regNoTag   = "regno"
	regNoText  = "invalid registration number"
	regNoRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/.-]*$`)

	sessionNameTag   = "sessionname"
	sessionNameText  = "session must be of the form 2020-2021"
	sessionNameRegex = regexp.MustCompile(`^[0-9]{4}-[0-9]{4}$`)

	semesterTag  = "semester"
	semesterText = "semester must be 1 or 2"

	levelTag  = "level"
	levelText = "level must be one of 100, 200, 300, 400, 500 or 600"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(regNoTag, regNoValidation)
	RegisterCustomTranslation(validate, translator, regNoTag, regNoText)

	_ = validate.RegisterValidation(sessionNameTag, sessionNameValidation)
	RegisterCustomTranslation(validate, translator, sessionNameTag, sessionNameText)

	_ = validate.RegisterValidation(semesterTag, semesterValidation)
	RegisterCustomTranslation(validate, translator, semesterTag, semesterText)

	_ = validate.RegisterValidation(levelTag, levelValidation)
	RegisterCustomTranslation(validate, translator, levelTag, levelText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// regNoValidation checks the registration number shape, eg. 2017/249148.
func regNoValidation(fl validator.FieldLevel) bool {
	return regNoRegex.MatchString(fl.Field().String())
}

// sessionNameValidation checks the enrollment session name shape, eg. 2020-2021.
func sessionNameValidation(fl validator.FieldLevel) bool {
	return sessionNameRegex.MatchString(fl.Field().String())
}

func semesterValidation(fl validator.FieldLevel) bool {
	sem := fl.Field().Int()
	return sem == 1 || sem == 2
}

func levelValidation(fl validator.FieldLevel) bool {
	lvl := fl.Field().Int()
	return lvl >= 100 && lvl <= 600 && lvl%100 == 0
}
