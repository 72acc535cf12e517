package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// report settings keys, not Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("mapstructure")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// Validate checks s and joins every violation into one error.
func Validate(s *Settings) error {
	svc := getValidator()
	err := svc.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid settings: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(svc.translator))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}
