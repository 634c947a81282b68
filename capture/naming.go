package capture

import (
	"regexp"
	"strings"
	"time"
)

// MaxSafeTitleLen bounds the title portion of an output directory name.
const MaxSafeTitleLen = 50

// timestampLayout keeps repeated captures of the same title in distinct
// directories at one-second granularity.
const timestampLayout = "20060102_150405"

// Letters and digits from any script are kept, matching how titles like
// "Für Elise" keep their accents.
var unsafeTitleChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// SafeTitle strips characters that are unsafe in file names, keeping
// word characters, spaces and hyphens, and truncates to MaxSafeTitleLen.
func SafeTitle(title string) string {
	safe := unsafeTitleChars.ReplaceAllString(title, "")
	safe = strings.TrimSpace(safe)
	if runes := []rune(safe); len(runes) > MaxSafeTitleLen {
		safe = string(runes[:MaxSafeTitleLen])
	}
	if safe == "" {
		safe = "untitled"
	}
	return safe
}

// OutputDirName builds the per-capture directory name from the score
// title and the capture time.
func OutputDirName(title string, now time.Time) string {
	return SafeTitle(title) + "_" + now.Format(timestampLayout)
}
