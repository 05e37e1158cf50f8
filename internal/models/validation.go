package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = newValidator()

// fieldMessages maps "<json field>.<tag>" to the message reported to clients.
var fieldMessages = map[string]string{
	"name.required":         "Name is required",
	"email.required":        "Please include a valid email",
	"email.email":           "Please include a valid email",
	"password.required":     "Password is required",
	"password.min":          "Please enter a password with 6 or more characters",
	"title.required":        "Title is required",
	"company.required":      "Company is required",
	"school.required":       "School is required",
	"degree.required":       "Degree is required",
	"fieldofstudy.required": "Field of study is required",
	"from.required":         "From date is required",
	"text.required":         "Text is required",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the validate tags of s and converts failures into a
// *ValidationError with one entry per rejected field.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Param: fe.Field(), Msg: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
