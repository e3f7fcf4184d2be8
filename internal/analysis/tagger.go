package analysis

import "strings"

// DefaultUnknownCountry is returned when no listed country appears in a text.
const DefaultUnknownCountry = "Vendi i panjohur"

// CountryTagger finds the first listed country mentioned in a text.
type CountryTagger struct {
	countries []string
	lowered   []string
	unknown   string
}

// NewCountryTagger creates a tagger over an ordered country list. The list
// order decides which country wins when several appear.
func NewCountryTagger(countries []string, unknown string) *CountryTagger {
	if unknown == "" {
		unknown = DefaultUnknownCountry
	}
	t := &CountryTagger{
		countries: append([]string(nil), countries...),
		lowered:   make([]string, len(countries)),
		unknown:   unknown,
	}
	for i, c := range countries {
		t.lowered[i] = strings.ToLower(c)
	}
	return t
}

// Detect returns the first country of the list contained in text, compared
// case-insensitively, or the unknown sentinel.
func (t *CountryTagger) Detect(text string) string {
	lower := strings.ToLower(text)
	for i, c := range t.lowered {
		if c != "" && strings.Contains(lower, c) {
			return t.countries[i]
		}
	}
	return t.unknown
}
