package clerk

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/drewzambelli/wtml/lib/htmlutil"
	"github.com/drewzambelli/wtml/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type Committee struct {
	Name string
	Link string
}

// the fixed attribute schema extracted from a member biography page
type Profile struct {
	Slug          string
	FullName      string
	State         string
	District      string
	Party         string
	Hometown      string
	Office        string
	Phone         string
	Website       string
	Email         string
	HeadshotSrc   string
	Committees    []Committee
	Subcommittees []Committee
}

const maxCommittees = 4
const maxSubcommittees = 4

// the office address span is recognized by its aria-label naming one
// of the House office buildings
var officeBuildings = []string{"rayburn", "longworth", "cannon"}

func (c *Client) FetchProfile(ctx context.Context, link MemberLink) (Profile, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProfile")
	defer span.End()

	err := c.wait(ctx)
	if err != nil {
		return Profile{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link.ProfileUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return Profile{}, fmt.Errorf("fetch profile %s: %w", link.Slug, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "profile page returned an error status")
		return Profile{}, fmt.Errorf("fetch profile %s: status %s", link.Slug, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse profile html")
		return Profile{}, err
	}

	return c.parseProfile(doc, link)
}

func (c *Client) parseProfile(doc *goquery.Document, link MemberLink) (Profile, error) {
	if doc.Find(".about_bio").Length() == 0 {
		return Profile{}, fmt.Errorf("profile %s: could not find the biography section, has the page layout changed?", link.Slug)
	}

	profile := Profile{
		Slug:     link.Slug,
		State:    link.State,
		District: link.District,
		Party:    link.Party,
	}

	profile.FullName = textutil.FoldASCII(htmlutil.CleanText(doc.Find("h1.library-h1").First().Text()))
	if profile.FullName == "" {
		profile.FullName = link.Name
	}

	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := htmlutil.CleanText(p.Text())
		if !strings.Contains(text, "Hometown:") {
			return true
		}
		profile.Hometown = textutil.FoldASCII(strings.TrimSpace(strings.Replace(text, "Hometown:", "", 1)))
		return false
	})
	if profile.Hometown == "" {
		profile.Hometown = link.Hometown
	}

	doc.Find("span[aria-label]").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if !textutil.MatchName(span.AttrOr("aria-label", ""), officeBuildings) {
			return true
		}
		profile.Office = htmlutil.CleanText(span.Text())
		return false
	})

	phoneSel := doc.Find("span[aria-label*='phone']")
	if phoneSel.Length() == 0 {
		phoneSel = doc.Find("span[class*='phone']")
	}
	if phoneSel.Length() > 0 {
		phone := htmlutil.CleanText(phoneSel.First().Text())
		profile.Phone = strings.TrimSpace(strings.Replace(phone, "Phone:", "", 1))
	}

	if href := doc.Find("span[class*='phone'] a").First().AttrOr("href", ""); href != "" {
		profile.Website = c.resolve(href)
	}

	if src := doc.Find("figure[class*='about_bio-img'] img").First().AttrOr("src", ""); src != "" {
		profile.HeadshotSrc = c.resolve(src)
	}

	c.parseCommittees(doc, &profile)

	return profile, nil
}

// committee assignments live in the collapsible panel below the bio.
// top-level committee anchors sit outside any list while subcommittee
// anchors hang off the list following their committee.
func (c *Client) parseCommittees(doc *goquery.Document, profile *Profile) {
	doc.Find("a.library-committeePanel-subItems").Each(func(_ int, a *goquery.Selection) {
		if a.ParentsFiltered("ul").Length() > 0 {
			return
		}
		if len(profile.Committees) >= maxCommittees {
			return
		}

		profile.Committees = append(profile.Committees, Committee{
			Name: htmlutil.CleanText(a.Text()),
			Link: c.resolve(a.AttrOr("href", "")),
		})

		a.NextAllFiltered("ul").First().Find("a").Each(func(_ int, sub *goquery.Selection) {
			if len(profile.Subcommittees) >= maxSubcommittees {
				return
			}
			profile.Subcommittees = append(profile.Subcommittees, Committee{
				Name: htmlutil.CleanText(sub.Text()),
				Link: c.resolve(sub.AttrOr("href", "")),
			})
		})
	})
}

func (c *Client) resolve(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.BaseUrl.ResolveReference(parsed).String()
}

// FetchHeadshot downloads the portrait bytes for a profile.
func (c *Client) FetchHeadshot(ctx context.Context, profile Profile) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchHeadshot")
	defer span.End()

	if profile.HeadshotSrc == "" {
		return nil, fmt.Errorf("profile %s has no headshot", profile.Slug)
	}

	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(profile.HeadshotSrc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch headshot")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "headshot returned an error status")
		return nil, fmt.Errorf("fetch headshot for %s: status %s", profile.Slug, res.Status())
	}

	return res.Body(), nil
}
