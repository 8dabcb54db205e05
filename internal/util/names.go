package util

import (
	"fmt"
	"strings"
)

// MaxSheetNameLength is the longest name Excel accepts for sheets and series headers
const MaxSheetNameLength = 31

// Truncate shortens s to at most n runes, marking the cut with an ellipsis when there is room
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SheetSafeName trims a name to the Excel limit without adding an ellipsis
func SheetSafeName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > MaxSheetNameLength {
		runes = runes[:MaxSheetNameLength]
	}
	return string(runes)
}

// WellKey builds the identifier used for a well tube across the workspace, cache and batches
func WellKey(broID string, tubeNr int, name string) string {
	return fmt.Sprintf("%s_%d_%s", broID, tubeNr, name)
}
