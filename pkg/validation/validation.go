package validation

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	gradeTag  = "kcse_grade"
	gradeText = "{0} must be a KCSE grade (A to E)"

	indexTag   = "kcse_index"
	indexText  = "{0} must look like 12345678/2023 or 1234/12345"
	indexRegex = regexp.MustCompile(`^(\d{4}/\d{5,6}|\d{8,11}/\d{4})$`)

	phoneTag   = "ke_phone"
	phoneText  = "{0} must be a valid Kenyan mobile number"
	phoneRegex = regexp.MustCompile(`^(?:(?:\+|00)254|0)[17]\d{8}$`)

	programTypeTag  = "program_type"
	programTypeText = "{0} must be one of degree, diploma, certificate, kmtc"

	institutionTypeTag  = "institution_type"
	institutionTypeText = "{0} must be one of university, kmtc, ttc, tvet, national_polytechnic"
)

type Validator struct {
	*validator.Validate
	translator ut.Translator
}

// New builds a validator that reports fields by their json names and knows the
// KCSE specific tags.
func New() *Validator {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{Validate: validate, translator: translator}

	v.register(gradeTag, gradeText, func(fl validator.FieldLevel) bool {
		return placement.IsValidGrade(fl.Field().String())
	})
	v.register(indexTag, indexText, func(fl validator.FieldLevel) bool {
		return indexRegex.MatchString(fl.Field().String())
	})
	v.register(phoneTag, phoneText, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	v.register(programTypeTag, programTypeText, func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.ProgramTypes, fl.Field().String())
	})
	v.register(institutionTypeTag, institutionTypeText, func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.InstitutionTypes, fl.Field().String())
	})

	return v
}

func (v *Validator) register(tag, text string, fn validator.Func) {
	_ = v.RegisterValidation(tag, fn)
	_ = v.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Messages turns validation errors into field -> message pairs. Other errors
// come back as nil.
func (v *Validator) Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}
