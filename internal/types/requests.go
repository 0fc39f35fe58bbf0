// Package types provides the request, result and enumeration types shared by the humanizer packages.
package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// HumanizeRequest asks for source text to be rewritten so it reads as human-written.
type HumanizeRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

// GenerateRequest asks for new content about a topic.
// Tone and Length may be left empty to use the defaults.
type GenerateRequest struct {
	Topic  string `json:"topic" validate:"required,notblank,max=500"`
	Tone   Tone   `json:"tone,omitempty" validate:"omitempty,oneof=casual professional academic"`
	Length Length `json:"length,omitempty" validate:"omitempty,oneof=short medium long"`
}

// ScoreRequest asks for a style report on finished text.
type ScoreRequest struct {
	Text string `json:"text"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegisterValidation(v, "notblank", validators.NotBlank)
		validate = v
	})
	return validate
}

func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// Validate validates the HumanizeRequest using the validator.
func (r *HumanizeRequest) Validate() error {
	return toValidationError(requestValidator().Struct(r))
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	return toValidationError(requestValidator().Struct(r))
}

// Normalize validates the request and fills in default tone and length.
func (r GenerateRequest) Normalize() (GenerateRequest, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	tone, err := ParseTone(string(r.Tone))
	if err != nil {
		return r, err
	}
	length, err := ParseLength(string(r.Length))
	if err != nil {
		return r, err
	}
	r.Tone = tone
	r.Length = length
	return r, nil
}

// toValidationError maps the first validator failure onto a ValidationError.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
