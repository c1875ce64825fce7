package htmlutil

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("scholarcite.lib.htmlutil")

// GetText concatenates every text node under `node` without any
// normalization, so label comparisons stay case- and spelling-sensitive.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	// the anchor's inner text, verbatim
	Label string
	// the raw href attribute, which may be relative
	Href string
}

// Anchors collects every node of the selection as an Anchor in document
// order. Nodes without an href contribute an Anchor with an empty Href.
func Anchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "Anchors")
	defer span.End()

	var anchors []Anchor
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		label := GetText(n)
		anchors = append(anchors, Anchor{
			Label: label,
			Href:  href,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("label", label),
			attribute.String("href", href),
		))
	}

	return anchors
}
