package prompts

import (
	"strings"

	"github.com/jonathan/humanizer/internal/types"
)

const (
	humanizeKey = "humanize-text"
	topicKey    = "topic-content"
)

// BuildHumanizePrompt embeds sourceText verbatim in the humanize template.
func BuildHumanizePrompt(sourceText string) string {
	return Format(MustGet(templateFile, humanizeKey), map[string]string{
		"SourceText": sourceText,
	})
}

// BuildTopicPrompt builds the instruction for writing new content on topic.
// Unknown tones or lengths and blank topics are rejected with a
// *types.ValidationError.
func BuildTopicPrompt(topic string, tone types.Tone, length types.Length) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", &types.ValidationError{Field: "topic", Message: "must not be empty"}
	}
	descriptor, err := tone.Descriptor()
	if err != nil {
		return "", err
	}
	target, err := length.Target()
	if err != nil {
		return "", err
	}

	return Format(MustGet(templateFile, topicKey), map[string]string{
		"Topic":          topic,
		"ToneDescriptor": descriptor,
		"LengthTarget":   target,
	}), nil
}
