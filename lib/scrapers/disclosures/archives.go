package disclosures

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/drewzambelli/wtml/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// one yearly travel filing archive hosted by the clerk
type Archive struct {
	Year int
	Url  string
}

func (c *Client) archiveUrl(year int) string {
	return fmt.Sprintf("%s/public_disc/gift-pdfs/%dTravel.zip", c.BaseUrl, year)
}

func (c *Client) probeYears() []int {
	var years []int
	for year := timezone.Now().Year(); year >= FirstFilingYear; year-- {
		years = append(years, year)
	}
	return years
}

// DiscoverArchives finds the yearly archives that actually exist,
// newest first. years == nil probes every year back to the first
// published one. discovery is tiered: a HEAD probe per year, then a
// leading-bytes GET for servers that mishandle HEAD, then scraping
// the filings page for archive anchors.
func (c *Client) DiscoverArchives(ctx context.Context, years []int) ([]Archive, error) {
	ctx, span := tracer.Start(ctx, "client:DiscoverArchives")
	defer span.End()

	if years == nil {
		years = c.probeYears()
	}

	var archives []Archive
	for _, year := range years {
		if c.headProbe(ctx, year) {
			archives = append(archives, Archive{Year: year, Url: c.archiveUrl(year)})
		}
	}
	if len(archives) > 0 {
		return archives, nil
	}

	slog.DebugContext(ctx, "head probes found nothing, trying leading-byte probes")
	for _, year := range years {
		if c.magicProbe(ctx, year) {
			archives = append(archives, Archive{Year: year, Url: c.archiveUrl(year)})
		}
	}
	if len(archives) > 0 {
		return archives, nil
	}

	slog.DebugContext(ctx, "byte probes found nothing, scraping the filings page")
	archives, err := c.scrapeArchiveLinks(ctx, years)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "archive discovery failed")
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no travel archives discovered for years %v", years)
	}
	return archives, nil
}

func (c *Client) headProbe(ctx context.Context, year int) bool {
	err := c.wait(ctx)
	if err != nil {
		return false
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Head(c.archiveUrl(year))
	if err != nil {
		slog.DebugContext(ctx, "head probe failed", "year", year, "err", err)
		return false
	}
	return res.StatusCode() == 200
}

// some frontends answer HEAD with errors yet serve GET fine, so read
// just enough of the body to check for the zip magic. this goes
// through the raw http client on purpose, parsing the response would
// buffer the entire archive per probed year.
func (c *Client) magicProbe(ctx context.Context, year int) bool {
	err := c.wait(ctx)
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.archiveUrl(year), nil)
	if err != nil {
		return false
	}
	req.Header.Set("range", "bytes=0-99")

	res, err := c.Http.GetClient().Do(req)
	if err != nil {
		slog.DebugContext(ctx, "byte probe failed", "year", year, "err", err)
		return false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusPartialContent {
		return false
	}
	magic := make([]byte, 2)
	_, err = io.ReadFull(res.Body, magic)
	if err != nil {
		return false
	}
	return bytes.Equal(magic, []byte("PK"))
}

var archiveHrefRegex = regexp.MustCompile(`(\d{4})Travel\.zip$`)

func (c *Client) scrapeArchiveLinks(ctx context.Context, years []int) ([]Archive, error) {
	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Get("/GiftTravelFilings")
	if err != nil {
		return nil, fmt.Errorf("fetch filings page: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch filings page: status %s", res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]struct{}, len(years))
	for _, y := range years {
		wanted[y] = struct{}{}
	}

	found := make(map[int]struct{})
	var archives []Archive
	doc.Find(`a[href$="Travel.zip"]`).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		groups := archiveHrefRegex.FindStringSubmatch(href)
		if len(groups) != 2 {
			return
		}
		year, err := strconv.Atoi(groups[1])
		if err != nil {
			return
		}
		if _, ok := wanted[year]; !ok {
			return
		}
		if _, dup := found[year]; dup {
			return
		}
		found[year] = struct{}{}

		parsed, err := url.Parse(href)
		if err != nil {
			slog.WarnContext(ctx, "unparseable archive link, skipping", "href", href, "err", err)
			return
		}
		archives = append(archives, Archive{
			Year: year,
			Url:  c.BaseUrl.ResolveReference(parsed).String(),
		})
	})

	return archives, nil
}

// DownloadArchive pulls the whole zip into memory. the yearly
// archives run a few megabytes at most.
func (c *Client) DownloadArchive(ctx context.Context, archive Archive) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadArchive")
	defer span.End()

	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(archive.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download archive")
		return nil, fmt.Errorf("download %d archive: %w", archive.Year, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "archive returned an error status")
		return nil, fmt.Errorf("download %d archive: status %s", archive.Year, res.Status())
	}

	body := res.Body()
	if !bytes.HasPrefix(body, []byte("PK")) {
		span.SetStatus(codes.Error, "archive is not a zip")
		return nil, fmt.Errorf("download %d archive: response is not a zip file", archive.Year)
	}
	return body, nil
}
