package types

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     HumanizeRequest
		wantErr bool
	}{
		{name: "valid", req: HumanizeRequest{Text: "Some text."}},
		{name: "empty", req: HumanizeRequest{}, wantErr: true},
		{name: "blank", req: HumanizeRequest{Text: " \n\t "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "text", vErr.Field)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestGenerateRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       GenerateRequest
		wantField string
	}{
		{name: "valid full", req: GenerateRequest{Topic: "Meditation", Tone: ToneAcademic, Length: LengthLong}},
		{name: "valid defaults", req: GenerateRequest{Topic: "Meditation"}},
		{name: "missing topic", req: GenerateRequest{Tone: ToneCasual}, wantField: "topic"},
		{name: "blank topic", req: GenerateRequest{Topic: "   "}, wantField: "topic"},
		{name: "topic too long", req: GenerateRequest{Topic: strings.Repeat("x", 501)}, wantField: "topic"},
		{name: "bad tone", req: GenerateRequest{Topic: "x", Tone: "snarky"}, wantField: "tone"},
		{name: "bad length", req: GenerateRequest{Topic: "x", Length: "novel"}, wantField: "length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestGenerateRequest_Normalize(t *testing.T) {
	req, err := GenerateRequest{Topic: "Gardening"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, ToneCasual, req.Tone)
	assert.Equal(t, LengthMedium, req.Length)

	req, err = GenerateRequest{Topic: "Gardening", Tone: ToneProfessional, Length: LengthShort}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, ToneProfessional, req.Tone)
	assert.Equal(t, LengthShort, req.Length)

	_, err = GenerateRequest{Topic: "Gardening", Tone: "loud"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation error in tone: bad", (&ValidationError{Field: "tone", Message: "bad"}).Error())
	assert.Equal(t, "validation error: bad", (&ValidationError{Message: "bad"}).Error())
}

func TestMustRegisterValidation(t *testing.T) {
	v := validator.New()

	assert.NotPanics(t, func() { mustRegisterValidation(v, "notblank", validators.NotBlank) })
	defer func() {
		r := recover()
		require.NotNil(t, r, "empty tag must panic")
		assert.Contains(t, r, "failed to register")
	}()
	mustRegisterValidation(v, "", validators.NotBlank)
}

func TestRequestValidator_BlankTagIsRegistered(t *testing.T) {
	err := (&HumanizeRequest{Text: "   "}).Validate()
	require.Error(t, err)
	assert.Equal(t, "validation error in text: must not be empty", err.Error())
	assert.NotContains(t, err.Error(), "failed notblank check")
}
