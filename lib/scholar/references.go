package scholar

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GetReferences runs the reference pipeline for a bare query string
// with the default search parameters.
func (c *Client) GetReferences(ctx context.Context, query string, format ReferenceFormat) (*ReferenceIterator, error) {
	return c.references(ctx, format, func() (string, error) {
		return SimpleSearchURL(query)
	})
}

// GetReferencesWithQuery runs the reference pipeline for structured
// search arguments.
func (c *Client) GetReferencesWithQuery(ctx context.Context, args QueryArgs, format ReferenceFormat) (*ReferenceIterator, error) {
	return c.references(ctx, format, func() (string, error) {
		return SearchURL(args)
	})
}

// both entry points share one orchestrator, parameterized only by how
// the search locator is built
func (c *Client) references(ctx context.Context, format ReferenceFormat, buildURL func() (string, error)) (*ReferenceIterator, error) {
	ctx, span := tracer.Start(ctx, "client:GetReferences")
	defer span.End()

	searchUrl, err := buildURL()
	if err != nil {
		span.SetStatus(codes.Error, "failed to build search url")
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(searchUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search results")
		return nil, err
	}

	ids := ScrapeCitationIDs(doc)
	span.SetAttributes(attribute.Int("citation_count", len(ids)))

	return &ReferenceIterator{
		client: c,
		format: format,
		ids:    ids,
	}, nil
}

// ReferenceIterator is a pull-based sequence of exported references,
// one per citation id of the originating search, in result-page order.
// Nothing is fetched until Next is called, one id per call, so stopping
// early issues no further requests. The first failed id ends the
// sequence; references yielded before it stay valid.
//
//	it, err := client.GetReferences(ctx, "some paper", scholar.FormatBibTeX)
//	if err != nil { ... }
//	for it.Next(ctx) {
//		fmt.Println(it.Reference())
//	}
//	if it.Err() != nil { ... }
//
// An iterator is not restartable and not safe for concurrent use.
type ReferenceIterator struct {
	client  *Client
	format  ReferenceFormat
	ids     []string
	pos     int
	current string
	err     error
}

// Next fetches the next reference, reporting whether one is available.
// It returns false once the ids are exhausted, the context is
// cancelled, or a fetch fails; Err distinguishes the latter two.
func (it *ReferenceIterator) Next(ctx context.Context) bool {
	if it.err != nil || it.pos >= len(it.ids) {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}

	id := it.ids[it.pos]
	it.pos++

	ref, err := it.client.fetchReference(ctx, id, it.format)
	if err != nil {
		it.err = err
		return false
	}
	it.current = ref
	return true
}

// Reference returns the reference fetched by the last successful Next.
func (it *ReferenceIterator) Reference() string {
	return it.current
}

// Err returns the error that terminated iteration, if any.
func (it *ReferenceIterator) Err() error {
	return it.err
}

func (c *Client) fetchReference(ctx context.Context, citationId string, format ReferenceFormat) (string, error) {
	ctx, span := tracer.Start(ctx, "client:fetchReference")
	defer span.End()
	span.SetAttributes(
		attribute.String("citation_id", citationId),
		attribute.String("format", format.Label()),
	)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(CiteURL(citationId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch citation page")
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse citation page")
		return "", err
	}

	link, err := ScrapeCitationLink(ctx, doc, format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find export link")
		return "", err
	}
	// the export host is whatever the page handed out, validate it
	// before issuing the request
	exportUrl, err := url.Parse(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export link is not a valid url")
		return "", err
	}

	res, err = c.Http.R().
		SetContext(ctx).
		Get(exportUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch reference export")
		return "", err
	}

	return res.String(), nil
}
