package capture_test

import (
	"strings"
	"testing"
	"time"

	"github.com/kmazurek/scorecap/capture"
	"github.com/stretchr/testify/assert"
)

func TestSafeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "strips punctuation", title: "Für Elise: Theme!!", want: "Für Elise Theme"},
		{name: "keeps hyphens", title: "Prelude in C-sharp minor", want: "Prelude in C-sharp minor"},
		{name: "keeps non-latin letters", title: "Étude Op. 10 No. 3 「別れの曲」", want: "Étude Op 10 No 3 別れの曲"},
		{name: "empty becomes untitled", title: "?!:", want: "untitled"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, capture.SafeTitle(tt.title))
		})
	}
}

func TestSafeTitle_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 80)

	got := capture.SafeTitle(long)

	assert.Len(t, got, capture.MaxSafeTitleLen)
}

func TestOutputDirName_DistinctPerSecond(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := capture.OutputDirName("Für Elise: Theme!!", at)
	second := capture.OutputDirName("Für Elise: Theme!!", at.Add(time.Second))

	assert.NotContains(t, first, ":")
	assert.NotContains(t, first, "!")
	assert.True(t, strings.HasSuffix(first, "_20250601_120000"))
	assert.NotEqual(t, first, second)
}
