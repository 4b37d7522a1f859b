package ai

import (
	"regexp"
	"strings"
)

var fenceRegexp = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON strips a markdown code fence from a model response, if one is
// present. Models regularly wrap JSON output in ```json blocks even when
// told not to.
func ExtractJSON(text string) string {
	if m := fenceRegexp.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
