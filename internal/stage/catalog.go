package stage

import (
	"strconv"
	"time"

	"github.com/drewzambelli/wtml/internal/roster"
	"github.com/drewzambelli/wtml/lib/scrapers/clerk"
	"github.com/drewzambelli/wtml/lib/scrapers/disclosures"
)

// output of the link collection stage, one row per directory entry
var MemberLinks = Artifact[clerk.MemberLink]{
	Name:    "member_links",
	Version: 1,
	Columns: []string{
		"slug", "profile_url", "name", "raw_name",
		"state", "district", "hometown", "party", "scraped_at",
	},
	Encode: func(l clerk.MemberLink) []string {
		return []string{
			l.Slug, l.ProfileUrl, l.Name, l.RawName,
			l.State, l.District, l.Hometown, l.Party, encodeTime(l.ScrapedAt),
		}
	},
	Decode: func(f []string) (clerk.MemberLink, error) {
		scrapedAt, err := decodeTime(f[8])
		if err != nil {
			return clerk.MemberLink{}, err
		}
		return clerk.MemberLink{
			Slug:       f[0],
			ProfileUrl: f[1],
			Name:       f[2],
			RawName:    f[3],
			State:      f[4],
			District:   f[5],
			Hometown:   f[6],
			Party:      f[7],
			ScrapedAt:  scrapedAt,
		}, nil
	},
}

// output of the detail scrape stage, the assembled roster. committee
// slots are flattened into name/link column pairs.
var MemberDetails = Artifact[roster.Member]{
	Name:    "member_details",
	Version: 1,
	Columns: []string{
		"member_id", "slug", "name", "state", "district", "hometown",
		"party", "office", "phone", "website", "email", "headshot",
		"c_1", "c_1link", "c_2", "c_2link",
		"c_3", "c_3link", "c_4", "c_4link",
		"sc_1", "sc_1link", "sc_2", "sc_2link",
		"sc_3", "sc_3link", "sc_4", "sc_4link",
		"scraped_at",
	},
	Encode: func(m roster.Member) []string {
		row := []string{
			strconv.FormatInt(m.MemberID, 10), m.Slug, m.FullName,
			m.State, m.District, m.Hometown, m.Party,
			m.Office, m.Phone, m.Website, m.Email, m.HeadshotUrl,
		}
		row = append(row, committeeSlots(m.Committees)...)
		row = append(row, committeeSlots(m.Subcommittees)...)
		return append(row, encodeTime(m.ScrapedAt))
	},
	Decode: func(f []string) (roster.Member, error) {
		id, err := strconv.ParseInt(f[0], 10, 64)
		if err != nil {
			return roster.Member{}, err
		}
		scrapedAt, err := decodeTime(f[28])
		if err != nil {
			return roster.Member{}, err
		}
		return roster.Member{
			MemberID:      id,
			Slug:          f[1],
			FullName:      f[2],
			State:         f[3],
			District:      f[4],
			Hometown:      f[5],
			Party:         f[6],
			Office:        f[7],
			Phone:         f[8],
			Website:       f[9],
			Email:         f[10],
			HeadshotUrl:   f[11],
			Committees:    slotCommittees(f[12:20]),
			Subcommittees: slotCommittees(f[20:28]),
			ScrapedAt:     scrapedAt,
		}, nil
	},
}

// output of the filing scrape stage, every travel record found in the
// downloaded archives
var TravelReports = Artifact[disclosures.TravelReport]{
	Name:    "travel_reports",
	Version: 1,
	Columns: []string{
		"doc_id", "report_year", "filing_type",
		"filer_first", "filer_last",
		"member_first", "member_last", "member_full",
		"member_state", "member_district",
		"dest_city", "dest_state",
		"depart_date", "return_date", "travel_sponsor", "scraped_at",
	},
	Encode: func(r disclosures.TravelReport) []string {
		return []string{
			r.DocID, strconv.Itoa(r.ReportYear), r.FilingType,
			r.FilerFirstName, r.FilerLastName,
			r.MemberFirstName, r.MemberLastName, r.MemberFullName,
			r.MemberState, r.MemberDistrict,
			r.DestinationCity, r.DestinationState,
			r.DepartureDate, r.ReturnDate, r.TravelSponsor, encodeTime(r.ScrapedAt),
		}
	},
	Decode: func(f []string) (disclosures.TravelReport, error) {
		year, err := strconv.Atoi(f[1])
		if err != nil {
			return disclosures.TravelReport{}, err
		}
		scrapedAt, err := decodeTime(f[15])
		if err != nil {
			return disclosures.TravelReport{}, err
		}
		return disclosures.TravelReport{
			DocID:            f[0],
			ReportYear:       year,
			FilingType:       f[2],
			FilerFirstName:   f[3],
			FilerLastName:    f[4],
			MemberFirstName:  f[5],
			MemberLastName:   f[6],
			MemberFullName:   f[7],
			MemberState:      f[8],
			MemberDistrict:   f[9],
			DestinationCity:  f[10],
			DestinationState: f[11],
			DepartureDate:    f[12],
			ReturnDate:       f[13],
			TravelSponsor:    f[14],
			ScrapedAt:        scrapedAt,
		}, nil
	},
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func committeeSlots(committees []clerk.Committee) []string {
	slots := make([]string, 2*roster.CommitteeSlots)
	for i, c := range committees {
		if i == roster.CommitteeSlots {
			break
		}
		slots[2*i] = c.Name
		slots[2*i+1] = c.Link
	}
	return slots
}

func slotCommittees(fields []string) []clerk.Committee {
	var committees []clerk.Committee
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == "" {
			continue
		}
		committees = append(committees, clerk.Committee{Name: fields[i], Link: fields[i+1]})
	}
	return committees
}
