package registry

import "regexp"

var gmwPattern = regexp.MustCompile(`GMW\d+`)

// ExtractGMWID returns the first GMW identifier (e.g. GMW000000041261) found in the
// candidates, checked in order
func ExtractGMWID(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if id := gmwPattern.FindString(c); id != "" {
			return id, true
		}
	}
	return "", false
}
