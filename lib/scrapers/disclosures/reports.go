package disclosures

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/drewzambelli/wtml/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// one gift/travel expense record derived from a filing. reports are
// produced independently of the member roster, linking the two is the
// uploader's job.
type TravelReport struct {
	DocID            string
	ReportYear       int
	FilingType       string
	FilerFirstName   string
	FilerLastName    string
	MemberFirstName  string
	MemberLastName   string
	MemberFullName   string
	MemberState      string
	MemberDistrict   string
	DestinationCity  string
	DestinationState string
	DepartureDate    string
	ReturnDate       string
	TravelSponsor    string
	ScrapedAt        time.Time
}

// wire layout of a <Travel> element inside the yearly XML
type travelFiling struct {
	DocID         string `xml:"DocID"`
	FilerName     string `xml:"FilerName"`
	MemberName    string `xml:"MemberName"`
	State         string `xml:"State"`
	District      string `xml:"District"`
	Year          string `xml:"Year"`
	FilingType    string `xml:"FilingType"`
	DepartureDate string `xml:"DepartureDate"`
	ReturnDate    string `xml:"ReturnDate"`
	TravelSponsor string `xml:"TravelSponsor"`
	Destination   string `xml:"Destination"`
}

// ParseArchive extracts travel reports from every xml member of a
// yearly archive. a bad entry is logged and skipped, the rest of the
// archive still parses.
func (c *Client) ParseArchive(ctx context.Context, year int, zipBytes []byte) ([]TravelReport, error) {
	ctx, span := tracer.Start(ctx, "client:ParseArchive")
	defer span.End()

	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open archive")
		return nil, fmt.Errorf("open %d archive: %w", year, err)
	}

	var reports []TravelReport
	xmlEntries := 0
	for _, entry := range reader.File {
		if !strings.EqualFold(path.Ext(entry.Name), ".xml") {
			continue
		}
		xmlEntries++

		file, err := entry.Open()
		if err != nil {
			slog.WarnContext(ctx, "failed to open archive entry, skipping",
				"archive", year, "entry", entry.Name, "err", err)
			continue
		}
		entryReports, err := parseFilingXML(ctx, file, year)
		file.Close()
		if err != nil {
			slog.WarnContext(ctx, "failed to parse archive entry, skipping",
				"archive", year, "entry", entry.Name, "err", err)
			continue
		}
		reports = append(reports, entryReports...)
	}

	if xmlEntries == 0 {
		return nil, fmt.Errorf("%d archive contains no xml filings", year)
	}
	slog.DebugContext(ctx, "parsed travel archive", "year", year, "records", len(reports))
	return reports, nil
}

// walks the document for <Travel> elements wherever they sit, the
// clerk has moved the surrounding structure around between years
func parseFilingXML(ctx context.Context, r io.Reader, year int) ([]TravelReport, error) {
	decoder := xml.NewDecoder(r)
	scrapedAt := timezone.Now()

	var reports []TravelReport
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Travel" {
			continue
		}

		var filing travelFiling
		err = decoder.DecodeElement(&filing, &start)
		if err != nil {
			slog.WarnContext(ctx, "undecodable travel record, skipping", "err", err)
			continue
		}
		reports = append(reports, deriveReport(ctx, filing, year, scrapedAt))
	}

	return reports, nil
}

func deriveReport(ctx context.Context, filing travelFiling, archiveYear int, scrapedAt time.Time) TravelReport {
	report := TravelReport{
		DocID:         strings.TrimSpace(filing.DocID),
		ReportYear:    archiveYear,
		FilingType:    strings.TrimSpace(filing.FilingType),
		TravelSponsor: strings.TrimSpace(filing.TravelSponsor),
		ScrapedAt:     scrapedAt,
	}

	// an explicit year on the record wins over the archive filename
	if y, err := strconv.Atoi(strings.TrimSpace(filing.Year)); err == nil && y > 0 {
		report.ReportYear = y
	}

	report.FilerFirstName, report.FilerLastName = splitFilerName(filing.FilerName)
	report.MemberFirstName, report.MemberLastName, report.MemberFullName = splitMemberName(filing.MemberName)
	report.DestinationCity, report.DestinationState = splitDestination(filing.Destination)

	report.MemberState = strings.TrimSpace(filing.State)
	if report.MemberState == "" {
		report.MemberState = AdminFiler
	}
	report.MemberDistrict = strings.TrimSpace(filing.District)
	if report.MemberDistrict == "" {
		report.MemberDistrict = AdminFiler
	}

	var ok bool
	report.DepartureDate, ok = normalizeDate(filing.DepartureDate)
	if !ok {
		slog.WarnContext(ctx, "unrecognized departure date kept verbatim",
			"docid", report.DocID, "date", report.DepartureDate)
	}
	report.ReturnDate, ok = normalizeDate(filing.ReturnDate)
	if !ok {
		slog.WarnContext(ctx, "unrecognized return date kept verbatim",
			"docid", report.DocID, "date", report.ReturnDate)
	}

	return report
}

// FetchReports is the whole report stage for one archive: download,
// then parse.
func (c *Client) FetchReports(ctx context.Context, archive Archive) ([]TravelReport, error) {
	zipBytes, err := c.DownloadArchive(ctx, archive)
	if err != nil {
		return nil, err
	}
	return c.ParseArchive(ctx, archive.Year, zipBytes)
}
