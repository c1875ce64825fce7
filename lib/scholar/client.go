package scholar

import (
	"net/http/cookiejar"
	"time"

	"scholarcite/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Client queries the Google Scholar web interface. It owns a single
// resty client (connection pool + cookie jar) and no per-query state,
// so one Client may serve many concurrent pipeline invocations.
type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	// sent on every request when set
	UserAgent string
	// zero means no client-side timeout, deferring to the transport
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	client := resty.New()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("Referer", "https://www.google.com/")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(
		"scholar.google.com",
		"scholar.googleusercontent.com",
		"www.google.com",
	))
	if opts.Timeout != 0 {
		client.SetTimeout(opts.Timeout)
	}

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{Http: client}, nil
}

// WithClient wraps a pre-configured resty client, leaving headers,
// cookie storage and transport entirely to the caller.
func WithClient(http *resty.Client) *Client {
	return &Client{Http: http}
}
