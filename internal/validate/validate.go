package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate
var trans ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("default", validateDefault); err != nil {
		panic(err)
	}

	trans, _ = ut.New(en.New()).GetTranslator("en")
	if err := entrans.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// Struct validates src, a pointer to struct, applying `default=` values to zero fields.
// Field paths in messages are built from yaml tags and prefixed with namespace.
func Struct(src any, namespace ...string) error {
	err := validate.Struct(src)
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	errs := make(Errors, len(vErrs))
	for i, fe := range vErrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		path = strings.ReplaceAll(strings.TrimSuffix(path, fe.Field()), ".", ":")
		errs[i] = path + fe.Translate(trans)
	}
	if len(namespace) > 0 {
		return errs.WithNamespace(namespace...)
	}
	return errs
}

// StructFromYAML decodes value into dst and validates it.
func StructFromYAML(dst any, value yaml.Node, namespace ...string) error {
	if err := value.Decode(dst); err != nil {
		return errors.Wrapf(err, "decode yaml into %T", dst)
	}
	return Struct(dst, namespace...)
}

func validateDefault(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.IsZero() {
		return true
	}

	switch field.Interface().(type) {
	case time.Duration:
		dur, err := time.ParseDuration(fl.Param())
		if err != nil {
			panic(err)
		}
		field.Set(reflect.ValueOf(dur))
	default:
		switch kind := field.Kind(); kind {
		case reflect.Bool:
			value, err := strconv.ParseBool(fl.Param())
			if err != nil {
				panic(errors.Errorf("default: unexpected bool value: %s. Pass true or false", fl.Param()))
			}
			field.SetBool(value)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			value, err := strconv.ParseInt(fl.Param(), 10, 64)
			if err != nil {
				panic(err)
			}
			field.SetInt(value)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			value, err := strconv.ParseUint(fl.Param(), 10, 64)
			if err != nil {
				panic(err)
			}
			field.SetUint(value)
		case reflect.String:
			field.SetString(fl.Param())
		default:
			panic(fmt.Errorf("default: unexpected reflect.Kind: %s", kind))
		}
	}
	return true
}
