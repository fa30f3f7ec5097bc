package clerk

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/drewzambelli/wtml/lib/htmlutil"
	"github.com/drewzambelli/wtml/lib/textutil"
	"github.com/drewzambelli/wtml/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// one entry of the member directory, points at a biography page.
// carries no identity of its own beyond the profile url.
type MemberLink struct {
	Slug       string
	ProfileUrl string
	Name       string
	RawName    string
	State      string
	District   string
	Hometown   string
	Party      string
	ScrapedAt  time.Time
}

type DirectoryPage struct {
	Page       int
	TotalPages int
	Links      []MemberLink
}

func (c *Client) FetchDirectoryPage(ctx context.Context, page int) (DirectoryPage, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDirectoryPage")
	defer span.End()

	err := c.wait(ctx)
	if err != nil {
		return DirectoryPage{}, err
	}

	req := c.Http.R().SetContext(ctx)
	if page > 1 {
		req.SetQueryParam("currentPage", strconv.Itoa(page))
	}
	res, err := req.Get("/Members")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch member directory")
		return DirectoryPage{}, fmt.Errorf("fetch member directory page %d: %w", page, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "member directory returned an error status")
		return DirectoryPage{}, fmt.Errorf("fetch member directory page %d: status %s", page, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse member directory html")
		return DirectoryPage{}, err
	}

	return c.parseDirectoryPage(ctx, doc, page)
}

func (c *Client) parseDirectoryPage(ctx context.Context, doc *goquery.Document, page int) (DirectoryPage, error) {
	members := doc.Find("#members")
	if members.Length() == 0 {
		return DirectoryPage{}, fmt.Errorf("page %d: could not find the member list, has the directory layout changed?", page)
	}

	var links []MemberLink
	doc.Find("#members > li").Each(func(_ int, li *goquery.Selection) {
		link, ok := c.parseMemberEntry(ctx, li)
		if !ok {
			return
		}
		links = append(links, link)
	})

	return DirectoryPage{
		Page:       page,
		TotalPages: parseTotalPages(doc),
		Links:      links,
	}, nil
}

func (c *Client) parseMemberEntry(ctx context.Context, li *goquery.Selection) (MemberLink, bool) {
	href := li.Find("a.library-link.members-link").First().AttrOr("href", "")
	if href == "" {
		slog.WarnContext(ctx, "directory entry without a profile link, skipping")
		return MemberLink{}, false
	}
	parsed, err := url.Parse(href)
	if err != nil {
		slog.WarnContext(ctx, "unparseable profile link, skipping", "href", href, "err", err)
		return MemberLink{}, false
	}
	profileUrl := c.BaseUrl.ResolveReference(parsed)

	segments := strings.Split(strings.Trim(profileUrl.Path, "/"), "/")
	slug := segments[len(segments)-1]

	rawName := htmlutil.CleanText(li.Find("h2.member-name").First().Text())

	field := func(selector string) string {
		return textutil.FoldASCII(htmlutil.CleanText(li.Find(selector).First().Text()))
	}

	return MemberLink{
		Slug:       slug,
		ProfileUrl: profileUrl.String(),
		Name:       textutil.FoldASCII(rawName),
		RawName:    rawName,
		State:      field(".state"),
		District:   field(".district"),
		Hometown:   field(".hometown"),
		Party:      field(".party"),
		ScrapedAt:  timezone.Now(),
	}, true
}

var paginationInfoRegex = regexp.MustCompile(`of\s+(\d+)`)

// reads the page count from the numbered pagination links, falling
// back to the "1-20 of N" info text when the link list is elided
func parseTotalPages(doc *goquery.Document) int {
	highest := 1
	doc.Find("ul.bottompagination a.page").Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			return
		}
		if n > highest {
			highest = n
		}
	})
	if highest > 1 {
		return highest
	}

	info := doc.Find(".pagination_info").First().Text()
	groups := paginationInfoRegex.FindStringSubmatch(info)
	if len(groups) == 2 {
		total, err := strconv.Atoi(groups[1])
		if err == nil && total > 0 {
			return (total + PageSize - 1) / PageSize
		}
	}

	return 1
}

// Pager walks the member directory one page at a time.
type Pager struct {
	client *Client
	page   int
	total  int
}

func (c *Client) Pager() *Pager {
	return &Pager{client: c}
}

// Next fetches the next directory page, returning nil links once
// every page has been visited.
func (p *Pager) Next(ctx context.Context) ([]MemberLink, error) {
	if p.total > 0 && p.page >= p.total {
		return nil, nil
	}

	p.page++
	result, err := p.client.FetchDirectoryPage(ctx, p.page)
	if err != nil {
		return nil, err
	}
	if p.total == 0 {
		p.total = result.TotalPages
	}
	if len(result.Links) == 0 {
		return nil, fmt.Errorf("directory page %d came back empty", p.page)
	}
	if p.page < p.total && len(result.Links) < PageSize {
		return nil, fmt.Errorf(
			"directory page %d lists %d members, expected %d, refusing to continue with a partial roster",
			p.page, len(result.Links), PageSize,
		)
	}

	return result.Links, nil
}

func (p *Pager) TotalPages() int {
	return p.total
}

func (p *Pager) Reset() {
	p.page = 0
	p.total = 0
}

// CollectLinks drains the directory, deduplicating by profile url
// while preserving directory order. maxPages > 0 bounds the crawl
// for smoke runs.
func (c *Client) CollectLinks(ctx context.Context, maxPages int) ([]MemberLink, error) {
	ctx, span := tracer.Start(ctx, "client:CollectLinks")
	defer span.End()

	pager := c.Pager()
	seen := make(map[string]struct{})
	var all []MemberLink

	for {
		if maxPages > 0 && pager.page >= maxPages {
			break
		}
		links, err := pager.Next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "directory crawl failed")
			return nil, err
		}
		if links == nil {
			break
		}

		for _, link := range links {
			if _, dup := seen[link.ProfileUrl]; dup {
				slog.DebugContext(ctx, "duplicate profile link", "url", link.ProfileUrl)
				continue
			}
			seen[link.ProfileUrl] = struct{}{}
			all = append(all, link)
		}
		slog.DebugContext(ctx, "collected directory page",
			"page", pager.page, "of", pager.TotalPages(), "members", len(all))
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("the member directory yielded no entries")
	}
	return all, nil
}
