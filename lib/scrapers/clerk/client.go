package clerk

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/drewzambelli/wtml/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("wtml.lib.scrapers.clerk")

const DefaultBaseUrl = "https://clerk.house.gov"

// entries the directory renders per page
const PageSize = 20

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	limiter     *rate.Limiter
	jitterMinMs int
	jitterMaxMs int
}

type ClientOptions struct {
	BaseUrl string
	// requests per second, <= 0 means one request per second
	MaxRate float64
	// random extra delay bounds between fetches, both <= 0 disables jitter
	JitterMinMs int
	JitterMaxMs int
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	// the clerk site 403s plain http clients
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/clerk/http")

	maxRate := opts.MaxRate
	if maxRate <= 0 {
		maxRate = 1
	}

	c := &Client{
		BaseUrl:     baseUrl,
		Http:        client,
		limiter:     rate.NewLimiter(rate.Limit(maxRate), 1),
		jitterMinMs: opts.JitterMinMs,
		jitterMaxMs: opts.JitterMaxMs,
	}
	return c, nil
}

// blocks until the next request is allowed to go out
func (c *Client) wait(ctx context.Context) error {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return err
	}
	if c.jitterMaxMs <= 0 || c.jitterMaxMs <= c.jitterMinMs {
		return nil
	}
	ms, err := random.IntRange(c.jitterMinMs, c.jitterMaxMs)
	if err != nil {
		return nil
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
