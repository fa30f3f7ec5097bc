package clerk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drewzambelli/wtml/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: baseUrl,
		MaxRate: 1000,
	})
	require.NoError(t, err)
	return client
}

func memberEntry(slug, name, state, district, hometown, party string) string {
	return fmt.Sprintf(`<li>
		<a class="library-link members-link" href="/members/%s">
			<h2 class="member-name"><text>%s</text></h2>
			<span class="state">%s</span>
			<span class="district">%s</span>
			<span class="hometown">%s</span>
			<span class="party">%s</span>
		</a>
	</li>`, slug, name, state, district, hometown, party)
}

func directoryPage(entries []string, totalPages int) string {
	var pages strings.Builder
	for i := 1; i <= totalPages; i++ {
		fmt.Fprintf(&pages, `<li><a class="page">%d</a></li>`, i)
	}
	return fmt.Sprintf(`<html><body>
		<ul id="members">%s</ul>
		<ul class="bottompagination">%s</ul>
	</body></html>`, strings.Join(entries, "\n"), pages.String())
}

func fullPage(page int) []string {
	entries := make([]string, 0, PageSize)
	for i := 0; i < PageSize; i++ {
		slug := fmt.Sprintf("M%03d%02d", page, i)
		entries = append(entries, memberEntry(
			slug,
			fmt.Sprintf("Member %d-%d", page, i),
			"Florida", "14th District", "Tampa", "Democratic",
		))
	}
	return entries
}

func TestCollectLinks(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/clerk")
	defer cleanup()

	lastPage := []string{
		memberEntry("V000081", "Nydia Velázquez", "New York", "7th District", "Brooklyn", "Democratic"),
		// repeats a page one entry, the collector should drop it
		memberEntry("M00100", "Member 1-0", "Florida", "14th District", "Tampa", "Democratic"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("currentPage") {
		case "", "1":
			fmt.Fprint(w, directoryPage(fullPage(1), 2))
		case "2":
			fmt.Fprint(w, directoryPage(lastPage, 2))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	links, err := client.CollectLinks(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, links, PageSize+1)

	first := links[0]
	require.Equal(t, "M00100", first.Slug)
	require.Equal(t, srv.URL+"/members/M00100", first.ProfileUrl)
	require.Equal(t, "Florida", first.State)
	require.Equal(t, "14th District", first.District)
	require.Equal(t, "Tampa", first.Hometown)
	require.Equal(t, "Democratic", first.Party)
	require.False(t, first.ScrapedAt.IsZero())

	velazquez := links[PageSize]
	require.Equal(t, "V000081", velazquez.Slug)
	require.Equal(t, "Nydia Velázquez", velazquez.RawName)
	require.Equal(t, "Nydia Velazquez", velazquez.Name)
}

func TestCollectLinksMaxPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("currentPage")
		if page == "" {
			page = "1"
		}
		if page == "3" {
			t.Errorf("crawl should have stopped before page 3")
		}
		n := 1
		fmt.Sscanf(page, "%d", &n)
		fmt.Fprint(w, directoryPage(fullPage(n), 5))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	links, err := client.CollectLinks(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, links, PageSize*2)
}

func TestCollectLinksMissingList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>maintenance</p></body></html>`)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.CollectLinks(context.Background(), 0)
	require.ErrorContains(t, err, "member list")
}

func TestCollectLinksShortMidPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// page one claims two pages but only carries five entries
		fmt.Fprint(w, directoryPage(fullPage(1)[:5], 2))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.CollectLinks(context.Background(), 0)
	require.ErrorContains(t, err, "partial roster")
}

func TestTotalPagesFromInfoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<ul id="members">%s</ul>
			<div class="pagination_info">Viewing 1-20 of 441</div>
		</body></html>`, strings.Join(fullPage(1), "\n"))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	result, err := client.FetchDirectoryPage(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 23, result.TotalPages)
	require.Len(t, result.Links, PageSize)
}

const profileFixture = `<html><body>
	<section class="about_bio">
		<h1 class="library-h1">Kathy Castor</h1>
		<figure class="about_bio-img"><img src="/content/assets/img/C001066.jpg"></figure>
		<p>Hometown: Tampa</p>
		<span aria-label="2052 Rayburn House Office Building">2052 Rayburn House Office Building</span>
		<span class="library-phone" aria-label="phone number">Phone: (202) 225-3376 <a href="https://castor.house.gov">castor.house.gov</a></span>
	</section>
	<div class="library-committeePanel">
		<a class="library-committeePanel-subItems" href="/committees/IF00">Energy and Commerce</a>
		<ul>
			<li><a class="library-committeePanel-subItems" href="/committees/IF03">Energy Subcommittee</a></li>
			<li><a href="/committees/IF18">Health Subcommittee</a></li>
		</ul>
		<a class="library-committeePanel-subItems" href="/committees/ZS00">Select Climate Crisis</a>
	</div>
</body></html>`

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/members/C001066":
			fmt.Fprint(w, profileFixture)
		case "/content/assets/img/C001066.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	link := MemberLink{
		Slug:       "C001066",
		ProfileUrl: srv.URL + "/members/C001066",
		Name:       "Kathy Castor",
		State:      "Florida",
		District:   "14th District",
		Party:      "Democratic",
	}

	profile, err := client.FetchProfile(context.Background(), link)
	require.NoError(t, err)

	require.Equal(t, "Kathy Castor", profile.FullName)
	require.Equal(t, "Florida", profile.State)
	require.Equal(t, "14th District", profile.District)
	require.Equal(t, "Tampa", profile.Hometown)
	require.Equal(t, "2052 Rayburn House Office Building", profile.Office)
	require.Equal(t, "(202) 225-3376 castor.house.gov", profile.Phone)
	require.Equal(t, "https://castor.house.gov", profile.Website)
	require.Equal(t, srv.URL+"/content/assets/img/C001066.jpg", profile.HeadshotSrc)

	require.Len(t, profile.Committees, 2)
	require.Equal(t, "Energy and Commerce", profile.Committees[0].Name)
	require.Equal(t, srv.URL+"/committees/IF00", profile.Committees[0].Link)
	require.Equal(t, "Select Climate Crisis", profile.Committees[1].Name)

	require.Len(t, profile.Subcommittees, 2)
	require.Equal(t, "Energy Subcommittee", profile.Subcommittees[0].Name)
	require.Equal(t, "Health Subcommittee", profile.Subcommittees[1].Name)

	img, err := client.FetchHeadshot(context.Background(), profile)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, img)
}

func TestFetchProfileMissingBio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Page not found</h1></body></html>`)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.FetchProfile(context.Background(), MemberLink{
		Slug:       "X000000",
		ProfileUrl: srv.URL + "/members/X000000",
	})
	require.ErrorContains(t, err, "biography section")
}
