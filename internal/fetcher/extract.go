package fetcher

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector chains tried in order; the first one that produces paragraphs
// wins. Article-body selectors come first so navigation, comment threads and
// sidebars never get a chance to contribute.
var contentSelectors = []string{
	"article p",
	".article-body p",
	".article-content p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
	"#content p",
	".text p",
	"p",
}

var titleSelectors = []string{
	"h1",
	".article-title",
	".headline",
	".entry-title",
	"title",
}

// Line fragments that mark boilerplate rather than article copy.
var junkIndicators = []string{
	"cookie", "gdpr", "subscribe", "newsletter", "advertisement",
	"read more", "click here", "follow us", "share this", "sign in",
	"sign up", "log in", "related articles", "all rights reserved",
}

// extract parses the HTML body and pulls out title and cleaned article text.
// Tables and comment sections are skipped by never selecting them.
func extract(body io.Reader) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", "", err
	}

	// Drop structural noise before selecting paragraphs.
	doc.Find("nav, aside, footer, table, form, script, style, noscript, .comments, #comments").Remove()

	title = extractTitle(doc)
	text = cleanParagraphs(extractParagraphs(doc))
	return title, text, nil
}

func extractParagraphs(doc *goquery.Document) []string {
	var paragraphs []string

	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 { // three paragraphs is a real article body
			break
		}
		paragraphs = paragraphs[:0]
	}

	// A short page may still be legitimate; retry once keeping whatever the
	// generic selector finds.
	if len(paragraphs) == 0 {
		doc.Find("article p, p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	return paragraphs
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

// cleanParagraphs filters boilerplate lines and joins the remainder with
// blank lines between paragraphs.
func cleanParagraphs(paragraphs []string) string {
	var clean []string

	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if len(p) < 8 {
			continue
		}

		lower := strings.ToLower(p)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}

		clean = append(clean, p)
	}

	return strings.TrimSpace(strings.Join(clean, "\n\n"))
}
