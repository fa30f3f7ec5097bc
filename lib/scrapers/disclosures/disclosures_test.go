package disclosures

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func buildArchive(t *testing.T, entries map[string]string) []byte {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := writer.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

const filingsXML = `<?xml version="1.0" encoding="utf-8"?>
<GiftTravel>
  <Travel>
    <DocID>500123</DocID>
    <FilerName>Jane Carter</FilerName>
    <MemberName>Doe, John</MemberName>
    <State>TX</State>
    <District>05</District>
    <Year></Year>
    <FilingType>ORIGINAL</FilingType>
    <DepartureDate>6/10/2024</DepartureDate>
    <ReturnDate>6/12/2024</ReturnDate>
    <TravelSponsor>Aspen Institute</TravelSponsor>
    <Destination>Austin, TX</Destination>
  </Travel>
  <Travel>
    <DocID>500124</DocID>
    <FilerName>Cho</FilerName>
    <MemberName>Velazquez, Nydia</MemberName>
    <State>NY</State>
    <District>07</District>
    <Year>2023</Year>
    <FilingType>AMENDMENT</FilingType>
    <DepartureDate>2023-11-02</DepartureDate>
    <ReturnDate>Nov 5 2023</ReturnDate>
    <TravelSponsor>CODEL Support</TravelSponsor>
    <Destination>Tokyo</Destination>
  </Travel>
  <Travel>
    <DocID>500125</DocID>
    <FilerName>House Ethics Office</FilerName>
    <MemberName>House Ethics Office</MemberName>
    <State></State>
    <District></District>
    <FilingType>ORIGINAL</FilingType>
    <DepartureDate></DepartureDate>
    <ReturnDate></ReturnDate>
    <TravelSponsor>Internal</TravelSponsor>
    <Destination>Washington, DC</Destination>
  </Travel>
</GiftTravel>`

func TestParseArchive(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/disclosures")
	defer cleanup()

	client := testClient(t, DefaultBaseUrl)
	archive := buildArchive(t, map[string]string{
		"2024Travel.xml": filingsXML,
		"readme.txt":     "not a filing",
	})

	reports, err := client.ParseArchive(context.Background(), 2024, archive)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	trip := reports[0]
	require.Equal(t, "500123", trip.DocID)
	require.Equal(t, 2024, trip.ReportYear)
	require.Equal(t, "ORIGINAL", trip.FilingType)
	require.Equal(t, "Jane", trip.FilerFirstName)
	require.Equal(t, "Carter", trip.FilerLastName)
	require.Equal(t, "John", trip.MemberFirstName)
	require.Equal(t, "Doe", trip.MemberLastName)
	require.Equal(t, "John Doe", trip.MemberFullName)
	require.Equal(t, "TX", trip.MemberState)
	require.Equal(t, "05", trip.MemberDistrict)
	require.Equal(t, "Austin", trip.DestinationCity)
	require.Equal(t, "TX", trip.DestinationState)
	require.Equal(t, "2024-06-10", trip.DepartureDate)
	require.Equal(t, "2024-06-12", trip.ReturnDate)
	require.Equal(t, "Aspen Institute", trip.TravelSponsor)
	require.False(t, trip.ScrapedAt.IsZero())

	foreign := reports[1]
	// a one-word filer has no first name to split off
	require.Equal(t, "", foreign.FilerFirstName)
	require.Equal(t, "Cho", foreign.FilerLastName)
	// the record's own year beats the archive year
	require.Equal(t, 2023, foreign.ReportYear)
	require.Equal(t, "Tokyo", foreign.DestinationCity)
	require.Equal(t, ForeignState, foreign.DestinationState)
	require.Equal(t, "2023-11-02", foreign.DepartureDate)
	// unrecognized date formats pass through untouched
	require.Equal(t, "Nov 5 2023", foreign.ReturnDate)

	admin := reports[2]
	require.Equal(t, AdminFiler, admin.MemberState)
	require.Equal(t, AdminFiler, admin.MemberDistrict)
	// no comma in the member name means it is all last name
	require.Equal(t, "", admin.MemberFirstName)
	require.Equal(t, "House Ethics Office", admin.MemberLastName)
	require.Equal(t, "House Ethics Office", admin.MemberFullName)
	require.Equal(t, "", admin.DepartureDate)
	require.Equal(t, "", admin.ReturnDate)
}

func TestParseArchiveSkipsBadEntry(t *testing.T) {
	client := testClient(t, DefaultBaseUrl)
	archive := buildArchive(t, map[string]string{
		"broken.xml":     "<GiftTravel><Travel><DocID>1</DocID>",
		"2024Travel.xml": filingsXML,
	})

	reports, err := client.ParseArchive(context.Background(), 2024, archive)
	require.NoError(t, err)
	require.Len(t, reports, 3)
}

func TestParseArchiveNoFilings(t *testing.T) {
	client := testClient(t, DefaultBaseUrl)
	archive := buildArchive(t, map[string]string{
		"readme.txt": "nothing here",
	})

	_, err := client.ParseArchive(context.Background(), 2024, archive)
	require.ErrorContains(t, err, "no xml filings")
}

func TestParseArchiveNotAZip(t *testing.T) {
	client := testClient(t, DefaultBaseUrl)
	_, err := client.ParseArchive(context.Background(), 2024, []byte("<html>error page</html>"))
	require.Error(t, err)
}

func TestDiscoverArchivesHeadProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/public_disc/gift-pdfs/2024Travel.zip", "/public_disc/gift-pdfs/2023Travel.zip":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	archives, err := client.DiscoverArchives(context.Background(), []int{2024, 2023, 2022})
	require.NoError(t, err)
	require.Len(t, archives, 2)
	require.Equal(t, 2024, archives[0].Year)
	require.Equal(t, srv.URL+"/public_disc/gift-pdfs/2024Travel.zip", archives[0].Url)
	require.Equal(t, 2023, archives[1].Year)
}

func TestDiscoverArchivesByteProbeFallback(t *testing.T) {
	zipBytes := buildArchive(t, map[string]string{"2024Travel.xml": filingsXML})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the frontend rejects HEAD outright but serves GET fine
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/public_disc/gift-pdfs/2024Travel.zip" {
			w.Write(zipBytes)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	archives, err := client.DiscoverArchives(context.Background(), []int{2024, 2022})
	require.NoError(t, err)
	require.Len(t, archives, 1)
	require.Equal(t, 2024, archives[0].Year)
}

func TestDiscoverArchivesPageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/GiftTravelFilings" {
			fmt.Fprint(w, `<html><body>
				<a href="/public_disc/gift-pdfs/2024Travel.zip">2024</a>
				<a href="/public_disc/gift-pdfs/2024Travel.zip">2024 again</a>
				<a href="/public_disc/gift-pdfs/2021Travel.zip">2021</a>
				<a href="/public_disc/financial-pdfs/2024FD.zip">unrelated</a>
			</body></html>`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	archives, err := client.DiscoverArchives(context.Background(), []int{2024, 2023})
	require.NoError(t, err)
	// 2021 is on the page but was not asked for, 2023 is asked for but absent
	require.Len(t, archives, 1)
	require.Equal(t, 2024, archives[0].Year)
	require.Equal(t, srv.URL+"/public_disc/gift-pdfs/2024Travel.zip", archives[0].Url)
}

func TestDiscoverArchivesNothingFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/GiftTravelFilings" {
			fmt.Fprint(w, `<html><body>no archives</body></html>`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.DiscoverArchives(context.Background(), []int{2024})
	require.ErrorContains(t, err, "no travel archives discovered")
}

func TestDownloadArchive(t *testing.T) {
	zipBytes := buildArchive(t, map[string]string{"2024Travel.xml": filingsXML})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public_disc/gift-pdfs/2024Travel.zip" {
			w.Write(zipBytes)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	body, err := client.DownloadArchive(context.Background(), Archive{
		Year: 2024,
		Url:  srv.URL + "/public_disc/gift-pdfs/2024Travel.zip",
	})
	require.NoError(t, err)
	require.Equal(t, zipBytes, body)
}

func TestDownloadArchiveRejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>maintenance page</html>")
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.DownloadArchive(context.Background(), Archive{
		Year: 2024,
		Url:  srv.URL + "/public_disc/gift-pdfs/2024Travel.zip",
	})
	require.ErrorContains(t, err, "not a zip file")
}

func TestFetchReports(t *testing.T) {
	zipBytes := buildArchive(t, map[string]string{"2024Travel.xml": filingsXML})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zipBytes)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	reports, err := client.FetchReports(context.Background(), Archive{
		Year: 2024,
		Url:  srv.URL + "/public_disc/gift-pdfs/2024Travel.zip",
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)
}
