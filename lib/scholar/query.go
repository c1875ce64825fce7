package scholar

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const searchBase = "https://scholar.google.com/scholar"

// the search query is empty, nothing can be built from it
var ErrEmptyQuery = errors.New("query must not be empty")

// no anchor on the citation page matches the requested reference format
var ErrFormatNotFound = errors.New("reference format not found on citation page")

// SortBy selects how search results are ordered. The integer code is
// used verbatim in the `scisbd` query parameter.
type SortBy int

const (
	SortByRelevance SortBy = iota
	SortByAbstracts
	SortByEverything
)

// ReferenceFormat selects which reference export to download.
type ReferenceFormat int

const (
	FormatBibTeX ReferenceFormat = iota
	FormatEndNote
	FormatRefMan
	FormatRefWorks
)

// Label returns the format's anchor text as rendered on the citation
// page. Matching against it is case- and spelling-sensitive.
func (f ReferenceFormat) Label() string {
	switch f {
	case FormatBibTeX:
		return "BibTeX"
	case FormatEndNote:
		return "EndNote"
	case FormatRefMan:
		return "RefMan"
	case FormatRefWorks:
		return "RefWorks"
	}
	return ""
}

func (f ReferenceFormat) String() string {
	return f.Label()
}

// QueryArgs holds the structured search parameters. Query is required,
// everything else is optional. Scalars whose zero value is meaningful
// (sort mode, limit, offset and the three flags) are pointers so that
// "unset" and "zero" stay distinguishable.
type QueryArgs struct {
	Query     string
	CiteID    string
	FromYear  int
	ToYear    int
	SortBy    *SortBy
	ClusterID string
	Lang      string
	LangLimit []string
	Limit     *int
	Offset    *int
	// maps to `safe`: "active" when true, "off" when false
	AdultFiltering *bool
	// maps to `filter`: "1" when true, "0" when false
	IncludeSimilarResults *bool
	// maps to `as_vis`: "1" when true, "0" when false
	IncludeCitations *bool
}

func Int(v int) *int { return &v }

func Bool(v bool) *bool { return &v }

func Sort(v SortBy) *SortBy { return &v }

// queryParams builds a query string whose parameter order is exactly
// the append order. url.Values.Encode sorts keys alphabetically, which
// would shuffle the parameter layout the upstream site receives.
type queryParams struct {
	buf strings.Builder
}

func (p *queryParams) add(key, value string) {
	if p.buf.Len() > 0 {
		p.buf.WriteByte('&')
	}
	p.buf.WriteString(url.QueryEscape(key))
	p.buf.WriteByte('=')
	p.buf.WriteString(url.QueryEscape(value))
}

func (p *queryParams) appendTo(base string) (string, error) {
	raw := base + "?" + p.buf.String()
	// the fixed base and escaped params should always survive this,
	// but a malformed composition must surface as an error, not a panic
	if _, err := url.Parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}

func boolParam(v bool, whenTrue, whenFalse string) string {
	if v {
		return whenTrue
	}
	return whenFalse
}

// SearchURL builds the search locator for structured arguments,
// skipping every parameter that is unset.
func SearchURL(args QueryArgs) (string, error) {
	if args.Query == "" {
		return "", ErrEmptyQuery
	}

	var p queryParams
	p.add("q", args.Query)
	if args.CiteID != "" {
		p.add("cites", args.CiteID)
	}
	if args.FromYear != 0 {
		p.add("as_ylo", strconv.Itoa(args.FromYear))
	}
	if args.ToYear != 0 {
		p.add("as_yhi", strconv.Itoa(args.ToYear))
	}
	if args.SortBy != nil {
		p.add("scisbd", strconv.Itoa(int(*args.SortBy)))
	}
	if args.ClusterID != "" {
		p.add("cluster", args.ClusterID)
	}
	if args.Lang != "" {
		p.add("hl", args.Lang)
	}
	if len(args.LangLimit) > 0 {
		p.add("lr", strings.Join(args.LangLimit, "|"))
	}
	if args.Limit != nil {
		p.add("num", strconv.Itoa(*args.Limit))
	}
	if args.Offset != nil {
		p.add("start", strconv.Itoa(*args.Offset))
	}
	if args.AdultFiltering != nil {
		p.add("safe", boolParam(*args.AdultFiltering, "active", "off"))
	}
	if args.IncludeSimilarResults != nil {
		p.add("filter", boolParam(*args.IncludeSimilarResults, "1", "0"))
	}
	if args.IncludeCitations != nil {
		p.add("as_vis", boolParam(*args.IncludeCitations, "1", "0"))
	}

	return p.appendTo(searchBase)
}

// SimpleSearchURL builds the search locator for a bare query string
// with the default parameter set.
func SimpleSearchURL(query string) (string, error) {
	if query == "" {
		return "", ErrEmptyQuery
	}

	var p queryParams
	p.add("hl", "en")
	p.add("as_sdt", "0,5")
	p.add("q", query)
	p.add("btnG", "")

	return p.appendTo(searchBase)
}

// CiteURL builds the locator of the citation-export page for one
// citation id scraped from a result page.
func CiteURL(citationId string) string {
	var p queryParams
	p.add("hl", "en")
	p.add("q", fmt.Sprintf("info:%s:scholar.google.com/", citationId))
	p.add("output", "cite")
	p.add("scirp", "0")

	return searchBase + "?" + p.buf.String()
}
