// Package voice picks a speech voice from whatever catalogue an engine offers.
package voice

import (
	"strings"

	"github.com/mrsingh-rishi/voice-chat/model"
)

type rule func(v model.Voice) bool

// Preference order, first match wins. Name checks are case-insensitive
// substring matches; language checks compare the tag as reported.
var preferences = []rule{
	nameContains("google us english male"),
	nameContains("google uk english male"),
	func(v model.Voice) bool {
		return v.Lang == "en-US" && strings.Contains(strings.ToLower(v.Name), "male")
	},
	func(v model.Voice) bool { return v.Lang == "en-US" },
	func(v model.Voice) bool { return strings.HasPrefix(v.Lang, "en") },
}

func nameContains(needle string) rule {
	return func(v model.Voice) bool {
		return strings.Contains(strings.ToLower(v.Name), needle)
	}
}

// Select returns the preferred voice from voices. When no preference matches
// the first voice is used; ok is false only for an empty catalogue.
func Select(voices []model.Voice) (model.Voice, bool) {
	for _, matches := range preferences {
		for _, v := range voices {
			if matches(v) {
				return v, true
			}
		}
	}
	if len(voices) > 0 {
		return voices[0], true
	}
	return model.Voice{}, false
}
