package scholar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"scholarcite/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const citePageTemplate = `<html><body><div id="gs_cit"><div id="gs_citi">
<a class="gs_citi" href="https://scholar.googleusercontent.com/scholar.bib?q=info:%[1]s:scholar.google.com/&amp;scisf=4">BibTeX</a>
<a class="gs_citi" href="https://scholar.googleusercontent.com/scholar.enw?q=info:%[1]s:scholar.google.com/&amp;scisf=3">EndNote</a>
<a class="gs_citi" href="https://scholar.googleusercontent.com/scholar.ris?q=info:%[1]s:scholar.google.com/&amp;scisf=2">RefMan</a>
<a class="gs_citi" href="https://scholar.googleusercontent.com/scholar.rfw?q=info:%[1]s:scholar.google.com/&amp;scisf=1">RefWorks</a>
</div></div></body></html>`

// fakeScholar serves the embedded fixtures in place of the live site,
// recording every request it sees.
type fakeScholar struct {
	mu       sync.Mutex
	requests []*url.URL
	// citation id whose export fetch fails with a transport error
	failExportFor string
	// serve citation pages without any export anchors
	dropFormats bool
}

func (f *fakeScholar) record(u *url.URL) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, u)
}

func (f *fakeScholar) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func idFromInfoQuery(q string) string {
	q = strings.TrimPrefix(q, "info:")
	return strings.TrimSuffix(q, ":scholar.google.com/")
}

func htmlResponse(req *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func (f *fakeScholar) RoundTrip(req *http.Request) (*http.Response, error) {
	f.record(req.URL)

	query := req.URL.Query()
	switch {
	case req.URL.Host == "scholar.googleusercontent.com":
		id := idFromInfoQuery(query.Get("q"))
		if id == f.failExportFor {
			return nil, fmt.Errorf("connection reset by peer")
		}
		return htmlResponse(req, "@misc{"+id+"}"), nil
	case query.Get("output") == "cite":
		if f.dropFormats {
			return htmlResponse(req, `<html><body><div id="gs_cit"></div></body></html>`), nil
		}
		id := idFromInfoQuery(query.Get("q"))
		return htmlResponse(req, fmt.Sprintf(citePageTemplate, id)), nil
	default:
		return htmlResponse(req, queryResponse), nil
	}
}

func newFakeClient(fake *fakeScholar) *Client {
	r := resty.New()
	r.GetClient().Transport = fake
	return WithClient(r)
}

func TestGetReferencesPipeline(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{}
	client := newFakeClient(fake)
	ctx := context.Background()

	it, err := client.GetReferences(ctx, "security assurance", FormatBibTeX)
	require.NoError(t, err)
	require.Equal(t, 1, fake.requestCount())

	var refs []string
	for it.Next(ctx) {
		refs = append(refs, it.Reference())
	}
	require.NoError(t, it.Err())

	expected := make([]string, len(queryResponseIds))
	for i, id := range queryResponseIds {
		expected[i] = "@misc{" + id + "}"
	}
	diff := cmp.Diff(expected, refs)
	if diff != "" {
		t.Fatal(diff)
	}

	// search + (cite page + export) per id
	require.Equal(t, 1+2*len(queryResponseIds), fake.requestCount())
}

func TestGetReferencesLazy(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{}
	client := newFakeClient(fake)
	ctx := context.Background()

	it, err := client.GetReferencesWithQuery(ctx, QueryArgs{
		Query: "security assurance",
		Limit: Int(10),
	}, FormatBibTeX)
	require.NoError(t, err)

	// taking the first reference must not fetch anything for the
	// remaining ids
	require.True(t, it.Next(ctx))
	require.Equal(t, "@misc{"+queryResponseIds[0]+"}", it.Reference())
	require.NoError(t, it.Err())
	require.Equal(t, 3, fake.requestCount())
}

func TestGetReferencesEmptyQuery(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{}
	client := newFakeClient(fake)
	ctx := context.Background()

	_, err := client.GetReferences(ctx, "", FormatBibTeX)
	require.ErrorIs(t, err, ErrEmptyQuery)

	_, err = client.GetReferencesWithQuery(ctx, QueryArgs{}, FormatBibTeX)
	require.ErrorIs(t, err, ErrEmptyQuery)

	// argument errors are detected before any network activity
	require.Equal(t, 0, fake.requestCount())
}

func TestGetReferencesTerminalError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{failExportFor: queryResponseIds[1]}
	client := newFakeClient(fake)
	ctx := context.Background()

	it, err := client.GetReferences(ctx, "security assurance", FormatBibTeX)
	require.NoError(t, err)

	require.True(t, it.Next(ctx))
	require.Equal(t, "@misc{"+queryResponseIds[0]+"}", it.Reference())

	require.False(t, it.Next(ctx))
	require.Error(t, it.Err())

	// the error is terminal, the remaining ids are abandoned
	require.False(t, it.Next(ctx))
	requests := fake.requestCount()
	require.Equal(t, 5, requests)
}

func TestGetReferencesFormatNotFound(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{dropFormats: true}
	client := newFakeClient(fake)
	ctx := context.Background()

	it, err := client.GetReferences(ctx, "security assurance", FormatBibTeX)
	require.NoError(t, err)

	require.False(t, it.Next(ctx))
	require.ErrorIs(t, it.Err(), ErrFormatNotFound)
}

func TestGetReferencesCancellation(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	fake := &fakeScholar{}
	client := newFakeClient(fake)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	it, err := client.GetReferences(ctx, "security assurance", FormatBibTeX)
	require.NoError(t, err)
	require.True(t, it.Next(ctx))

	cancel()
	require.False(t, it.Next(ctx))
	require.True(t, errors.Is(it.Err(), context.Canceled))
	// no request was issued for the id the cancelled Next would have
	// processed
	require.Equal(t, 3, fake.requestCount())
}
