package scholar

import (
	"context"
	"strings"
	"testing"

	"scholarcite/lib/telemetry"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/query_response.html
var queryResponse string

//go:embed testdata/cite_response.html
var citeResponse string

// the fixture contains these ten results plus one [CITATION]-only block
// without an export anchor, which must be skipped silently
var queryResponseIds = []string{
	"oRnsanDfyFAJ",
	"h04c3ps-QG4J",
	"K1ufdskeGhoJ",
	"oSQ2ikcD5YUJ",
	"kWdqyvppSk4J",
	"ga0OyWXd7jYJ",
	"PsyfzHL8y6sJ",
	"vx9FMpr8xsoJ",
	"PH5yhK_1--EJ",
	"3nA3AEXeAgsJ",
}

func TestScrapeCitationIDs(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(queryResponse))
	require.NoError(t, err)

	ids := ScrapeCitationIDs(doc)
	diff := cmp.Diff(queryResponseIds, ids)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestScrapeCitationLink(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	ctx := context.Background()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(citeResponse))
	require.NoError(t, err)

	testCases := []struct {
		format   ReferenceFormat
		expected string
	}{
		{
			format:   FormatBibTeX,
			expected: "https://scholar.googleusercontent.com/scholar.bib?q=info:oRnsanDfyFAJ:scholar.google.com/&output=citation&scisdr=CgXc7mXxEJuhju7JwnE:AAGBfm0AAAAAY3bP2nFwv5yvzTHsok6iOzPciqpmgQNn&scisig=AAGBfm0AAAAAY3bP2gGBvu6qzVeapAa4iOTHNZWb5QQy&scisf=4&ct=citation&cd=-1&hl=en",
		},
		{
			format:   FormatEndNote,
			expected: "https://scholar.googleusercontent.com/scholar.enw?q=info:oRnsanDfyFAJ:scholar.google.com/&output=citation&scisdr=CgXc7mXxEJuhju7JwnE:AAGBfm0AAAAAY3bP2nFwv5yvzTHsok6iOzPciqpmgQNn&scisig=AAGBfm0AAAAAY3bP2gGBvu6qzVeapAa4iOTHNZWb5QQy&scisf=3&ct=citation&cd=-1&hl=en",
		},
		{
			format:   FormatRefMan,
			expected: "https://scholar.googleusercontent.com/scholar.ris?q=info:oRnsanDfyFAJ:scholar.google.com/&output=citation&scisdr=CgXc7mXxEJuhju7JwnE:AAGBfm0AAAAAY3bP2nFwv5yvzTHsok6iOzPciqpmgQNn&scisig=AAGBfm0AAAAAY3bP2gGBvu6qzVeapAa4iOTHNZWb5QQy&scisf=2&ct=citation&cd=-1&hl=en",
		},
		{
			format:   FormatRefWorks,
			expected: "https://scholar.googleusercontent.com/scholar.rfw?q=info:oRnsanDfyFAJ:scholar.google.com/&output=citation&scisdr=CgXc7mXxEJuhju7JwnE:AAGBfm0AAAAAY3bP2nFwv5yvzTHsok6iOzPciqpmgQNn&scisig=AAGBfm0AAAAAY3bP2gGBvu6qzVeapAa4iOTHNZWb5QQy&scisf=1&ct=citation&cd=-1&hl=en",
		},
	}

	for _, test := range testCases {
		link, err := ScrapeCitationLink(ctx, doc, test.format)
		require.NoError(t, err, test.format.Label())
		require.Equal(t, test.expected, link, test.format.Label())
	}
}

func TestScrapeCitationLinkMissingFormat(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/scholar")
	defer cleanup()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><div id="gs_cit"><div id="gs_citi"></div></div></body></html>`,
	))
	require.NoError(t, err)

	_, err = ScrapeCitationLink(context.Background(), doc, FormatBibTeX)
	require.ErrorIs(t, err, ErrFormatNotFound)
}
