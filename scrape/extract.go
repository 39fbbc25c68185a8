// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package scrape

import (
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcodagnone/placescout/utils/htmlutils"
	"github.com/jcodagnone/placescout/utils/sentinel"
)

// Selectors of the Maps results feed.
const (
	ItemSelector        = ".hfpxzc"
	FeedSelector        = `[role="feed"]`
	nameSelector        = ".fontHeadlineSmall"
	addressSelector     = ".W4Efsd:nth-child(2) > span:nth-child(2)"
	ratingSelector      = ".g88MCb"
	reviewCountSelector = ".UY7F9b"
)

// ratingRegex takes the leading number of labels such as "4,5 stars 1.024 Reviews".
var ratingRegex = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)`)

// Extract reads the listing cards of a rendered results page.
func Extract(r io.Reader) ([]ScrapedResult, error) {
	doc, err := htmlutils.AsDocument(r, "text/html; charset=utf-8")
	if err != nil {
		return nil, err
	}

	return ExtractDocument(doc), nil
}

// ExtractDocument reads the listing cards of doc. Cards without a name are
// skipped.
func ExtractDocument(doc *goquery.Document) []ScrapedResult {
	ret := []ScrapedResult{}

	doc.Find(ItemSelector).Each(func(_ int, item *goquery.Selection) {
		if r, ok := extractItem(item); ok {
			ret = append(ret, r)
		}
	})

	return ret
}

// extractItem reads the fields nested under a card marker.
func extractItem(item *goquery.Selection) (ScrapedResult, bool) {
	name := htmlutils.Text(item.Find(nameSelector))
	if name == "" {
		log.Printf("🤷 Skipping card without a name: %.200s", htmlutils.Outer(item))

		return ScrapedResult{}, false
	}

	return ScrapedResult{
		Name:        name,
		Address:     sentinel.String(htmlutils.Text(item.Find(addressSelector))),
		Rating:      ParseRating(htmlutils.Attr(item.Find(ratingSelector), "aria-label")),
		ReviewCount: sentinel.String(ParseReviewCount(htmlutils.Text(item.Find(reviewCountSelector)))),
	}, true
}

// ParseRating returns the leading number of an aria-label.
func ParseRating(label string) sentinel.Float {
	m := ratingRegex.FindStringSubmatch(label)
	if m == nil {
		return sentinel.Float{}
	}

	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return sentinel.Float{}
	}

	return sentinel.NewFloat(v)
}

// ParseReviewCount strips the parentheses around a review count, "(1,024)".
func ParseReviewCount(s string) string {
	return strings.TrimSpace(strings.NewReplacer("(", "", ")", "").Replace(s))
}
