// Package goquery extracts score metadata and per-page resource locator
// URLs from rendered score-page HTML.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kmazurek/scorecap"
)

// pageCountRe matches the "N of M pages" alt text carried by score images.
var pageCountRe = regexp.MustCompile(`(?i)(\d+)\s*of\s*(\d+)\s*pages?`)

// pageIndexRe matches the positional token embedded in resource URLs,
// e.g. ".../score_3.svg".
var pageIndexRe = regexp.MustCompile(`score_(\d+)`)

// ExtractScoreInfo parses title, composer and advertised page count from
// rendered score-page HTML. Missing fields degrade to "Unknown" / zero;
// a zero PageCount commonly means the session lacks authorization to view
// the full score.
func ExtractScoreInfo(html string) (*scorecap.ScoreInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scorecap.Errorf(scorecap.EINVALID, "failed to parse HTML: %v", err)
	}

	info := &scorecap.ScoreInfo{Title: "Unknown", Composer: "Unknown"}

	if sel := doc.Find("h1").First(); sel.Length() > 0 {
		info.Title = strings.TrimSpace(sel.Text())
	} else if sel := doc.Find(`[class*="title"]`).First(); sel.Length() > 0 {
		info.Title = strings.TrimSpace(sel.Text())
	}

	if sel := doc.Find(`[class*="composer"]`).First(); sel.Length() > 0 {
		info.Composer = strings.TrimSpace(sel.Text())
	} else if sel := doc.Find(`a[href*="/user/"]`).First(); sel.Length() > 0 {
		info.Composer = strings.TrimSpace(sel.Text())
	}

	// Page count comes from the alt text of the first primary score image.
	doc.Find(`img[src*="score_"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		if !isPrimaryResource(src) {
			return true
		}
		alt, _ := sel.Attr("alt")
		if m := pageCountRe.FindStringSubmatch(alt); m != nil {
			info.PageCount, _ = strconv.Atoi(m[2])
		} else {
			info.PageCount = 1
		}
		return false
	})

	return info, nil
}

// ExtractResourceURLs returns the primary per-page resource URLs currently
// mounted in the HTML, in document order. Thumbnails and background-layer
// variants are filtered here, during extraction, so they never count
// toward the expected page total.
func ExtractResourceURLs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scorecap.Errorf(scorecap.EINVALID, "failed to parse HTML: %v", err)
	}

	var urls []string

	doc.Find(`img[src*="score_"]`).Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if isPrimaryResource(src) {
			urls = append(urls, src)
		}
	})

	// Some renderings mount pages as object/embed instead of img.
	doc.Find(`object[data*=".svg"], embed[src*=".svg"]`).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("data")
		if !ok {
			src, _ = sel.Attr("src")
		}
		if src != "" && strings.Contains(src, "score") {
			urls = append(urls, src)
		}
	})

	return urls, nil
}

// PageIndex parses the 1-based page index token from a resource URL.
// Returns scorecap.UnknownPageIndex when the URL carries no token.
func PageIndex(url string) int {
	m := pageIndexRe.FindStringSubmatch(url)
	if m == nil {
		return scorecap.UnknownPageIndex
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return scorecap.UnknownPageIndex
	}
	return n
}

// HasLoginAffordance reports whether the HTML contains a "Log in" button.
// Used as a best-effort signal that the session is not authenticated.
func HasLoginAffordance(html string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, scorecap.Errorf(scorecap.EINVALID, "failed to parse HTML: %v", err)
	}

	found := false
	doc.Find("button, a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "log in" || text == "login" || text == "sign in" {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

// isPrimaryResource filters out non-primary resource variants: anything
// outside the score data host path, density variants ("@2x") and
// background layers ("bgclr").
func isPrimaryResource(src string) bool {
	return strings.Contains(src, "scoredata") &&
		!strings.Contains(src, "@") &&
		!strings.Contains(src, "bgclr")
}
