package types

import "fmt"

// Tone selects the writing style of generated content.
type Tone string

const (
	// ToneCasual is conversational writing with contractions and slang.
	ToneCasual Tone = "casual"
	// ToneProfessional reads like an industry expert's blog.
	ToneProfessional Tone = "professional"
	// ToneAcademic is nuanced but accessible writing.
	ToneAcademic Tone = "academic"
)

// DefaultTone is used when a request leaves the tone empty.
const DefaultTone = ToneCasual

var toneDescriptors = map[Tone]string{
	ToneCasual:       "conversational, friendly, using contractions and occasional slang",
	ToneProfessional: "knowledgeable but approachable, like a blog written by an industry expert",
	ToneAcademic:     "thoughtful and nuanced, but still accessible to non-experts",
}

// Tones returns every supported tone in display order.
func Tones() []Tone {
	return []Tone{ToneCasual, ToneProfessional, ToneAcademic}
}

// ParseTone converts a raw value into a Tone.
// An empty value yields DefaultTone.
func ParseTone(s string) (Tone, error) {
	if s == "" {
		return DefaultTone, nil
	}
	t := Tone(s)
	if _, ok := toneDescriptors[t]; !ok {
		return "", &ValidationError{
			Field:   "tone",
			Message: fmt.Sprintf("unsupported tone %q (want one of casual, professional, academic)", s),
		}
	}
	return t, nil
}

// Descriptor returns the style description embedded in topic prompts.
func (t Tone) Descriptor() (string, error) {
	d, ok := toneDescriptors[t]
	if !ok {
		return "", &ValidationError{Field: "tone", Message: fmt.Sprintf("unsupported tone %q", string(t))}
	}
	return d, nil
}

// Label is the human-facing name of the tone.
func (t Tone) Label() string {
	switch t {
	case ToneCasual:
		return "Casual & Conversational"
	case ToneProfessional:
		return "Professional & Informative"
	case ToneAcademic:
		return "Academic & Thoughtful"
	default:
		return string(t)
	}
}

// Length selects the target word count of generated content.
type Length string

const (
	// LengthShort targets 300-500 words.
	LengthShort Length = "short"
	// LengthMedium targets 700-1000 words.
	LengthMedium Length = "medium"
	// LengthLong targets 1500-2000 words.
	LengthLong Length = "long"
)

// DefaultLength is used when a request leaves the length empty.
const DefaultLength = LengthMedium

var lengthTargets = map[Length]string{
	LengthShort:  "300-500 words",
	LengthMedium: "700-1000 words",
	LengthLong:   "1500-2000 words",
}

// Lengths returns every supported length in display order.
func Lengths() []Length {
	return []Length{LengthShort, LengthMedium, LengthLong}
}

// ParseLength converts a raw value into a Length.
// An empty value yields DefaultLength.
func ParseLength(s string) (Length, error) {
	if s == "" {
		return DefaultLength, nil
	}
	l := Length(s)
	if _, ok := lengthTargets[l]; !ok {
		return "", &ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("unsupported length %q (want one of short, medium, long)", s),
		}
	}
	return l, nil
}

// Target returns the word-count range embedded in topic prompts, e.g. "700-1000 words".
func (l Length) Target() (string, error) {
	t, ok := lengthTargets[l]
	if !ok {
		return "", &ValidationError{Field: "length", Message: fmt.Sprintf("unsupported length %q", string(l))}
	}
	return t, nil
}

// Label is the human-facing name of the length.
func (l Length) Label() string {
	t, ok := lengthTargets[l]
	if !ok {
		return string(l)
	}
	switch l {
	case LengthShort:
		return "Short (" + t + ")"
	case LengthMedium:
		return "Medium (" + t + ")"
	default:
		return "Long (" + t + ")"
	}
}
