package scorecap

// UnknownPageIndex is the sentinel index for locators whose URL carries
// no parseable page number. Sorting places them first.
const UnknownPageIndex = 0

// ScoreInfo holds metadata extracted from a rendered score page.
type ScoreInfo struct {
	Title     string `json:"title"`
	Composer  string `json:"composer"`
	PageCount int    `json:"pageCount"`
}

// ResourceLocator identifies one page's vector-graphics resource.
type ResourceLocator struct {
	// Resource URL, unique within one discovery run.
	URL string `json:"url"`

	// 1-based page index parsed from a positional token in the URL,
	// or UnknownPageIndex if none was found. Indexes may have gaps;
	// artifacts are numbered by sorted position, not by this value.
	Index int `json:"index"`
}

// Validate returns an error if the locator contains invalid fields.
func (l *ResourceLocator) Validate() error {
	if l.URL == "" {
		return Errorf(EINVALID, "resource locator URL required")
	}
	return nil
}
