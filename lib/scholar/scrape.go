package scholar

import (
	"context"
	"fmt"

	"scholarcite/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ScrapeCitationIDs collects the citation id of every result block on a
// search-result page, in document order, duplicates included. Blocks
// missing the title/anchor/id chain are skipped without error.
func ScrapeCitationIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("div.gs_ri").Each(func(_ int, block *goquery.Selection) {
		block.Find("h3").Each(func(_ int, title *goquery.Selection) {
			title.Find("a").Each(func(_ int, anchor *goquery.Selection) {
				id, ok := anchor.Attr("id")
				if !ok {
					return
				}
				ids = append(ids, id)
			})
		})
	})
	return ids
}

// ScrapeCitationLink finds the export link for the requested format on
// a citation page. Unlike id extraction this fails hard: the page is
// expected to always expose all four formats, so a missing anchor means
// a malformed response or an upstream layout change.
func ScrapeCitationLink(ctx context.Context, doc *goquery.Document, format ReferenceFormat) (string, error) {
	anchors := htmlutil.Anchors(ctx, doc.Find("div#gs_citi a"))
	for _, a := range anchors {
		if a.Label == format.Label() {
			return a.Href, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFormatNotFound, format.Label())
}
