package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func TestAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="links">
			<a href="https://example.org/a">First <b>Link</b></a>
			<a>No Href</a>
			<a href="/relative">BibTeX</a>
		</div>
	`))
	if err != nil {
		t.Fatal(err)
	}

	anchors := Anchors(context.Background(), doc.Find("div#links a"))
	expected := []Anchor{
		{Label: "First Link", Href: "https://example.org/a"},
		{Label: "No Href", Href: ""},
		{Label: "BibTeX", Href: "/relative"},
	}
	diff := cmp.Diff(expected, anchors)
	if diff != "" {
		t.Fatal(diff)
	}
}
