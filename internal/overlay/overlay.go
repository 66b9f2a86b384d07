// Package overlay defines overlay identities, the selectable options, and the
// fetcher for remotely hosted overlay rasters.
package overlay

import "strings"

// Identity names what is drawn as the overlay: a literal glyph such as "😁",
// or the URL of a small remote raster.
type Identity string

// IsRemote reports whether the identity references a remote raster.
func (id Identity) IsRemote() bool {
	return strings.HasPrefix(string(id), "http")
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return string(id)
}

// Option is one entry in the overlay picker.
type Option struct {
	Label string   `yaml:"label" json:"label"`
	Value Identity `yaml:"value" json:"value"`
}

// LegacyGrinURL is the pre-2015 artwork of U+1F601 offered as an image overlay.
const LegacyGrinURL = "https://emoji-img.s3.ap-northeast-1.amazonaws.com/svg/1f601.svg"

// DefaultOptions returns the built-in overlay choices. The first entry is the
// default identity.
func DefaultOptions() []Option {
	return []Option{
		{Label: "😁", Value: "😁"},
		{Label: "🥺", Value: "🥺"},
		{Label: "😤", Value: "😤"},
		{Label: "😭", Value: "😭"},
		{Label: "😢", Value: "😢"},
		{Label: "🥲", Value: "🥲"},
		{Label: "😡", Value: "😡"},
		{Label: "😁 (legacy)", Value: LegacyGrinURL},
	}
}

// FindByLabel returns the option with the given label.
func FindByLabel(opts []Option, label string) (Option, bool) {
	for _, o := range opts {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Labels returns the option labels in order.
func Labels(opts []Option) []string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return labels
}
