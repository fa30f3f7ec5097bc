package stage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drewzambelli/wtml/internal/roster"
	"github.com/drewzambelli/wtml/lib/scrapers/clerk"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestArtifactRoundTrip(t *testing.T) {
	workDir := t.TempDir()
	links := []clerk.MemberLink{
		{
			Slug:       "V000081",
			ProfileUrl: "https://clerk.house.gov/members/V000081",
			Name:       "Nydia Velazquez",
			RawName:    "Nydia Velázquez",
			State:      "New York",
			District:   "7th District",
			Hometown:   "Brooklyn, NY",
			Party:      "Democratic",
			ScrapedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Slug:       "D00001",
			ProfileUrl: "https://clerk.house.gov/members/D00001",
			Name:       `John "Jack" Doe`,
			RawName:    `John "Jack" Doe`,
			State:      "Texas",
			District:   "5th District",
			Hometown:   "Dallas",
			Party:      "Republican",
			ScrapedAt:  time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC),
		},
	}

	path := MemberLinks.Path(workDir)
	require.NoError(t, MemberLinks.Write(path, links))

	// first line is the version stamp, human readable on purpose
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "#wtml:member_links:v1\n")

	got, err := MemberLinks.Read(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(links, got))
}

func TestCommitteeSlotPadding(t *testing.T) {
	member := roster.Member{
		MemberID: 7,
		FullName: "John Doe",
		Committees: []clerk.Committee{
			{Name: "Financial Services", Link: "https://financialservices.house.gov"},
			{Name: "Small Business", Link: "https://smallbusiness.house.gov"},
		},
	}

	row := MemberDetails.Encode(member)
	require.Len(t, row, len(MemberDetails.Columns))

	decoded, err := MemberDetails.Decode(row)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(member.Committees, decoded.Committees))
	require.Empty(t, decoded.Subcommittees)
}

func TestReadRejectsStaleVersion(t *testing.T) {
	workDir := t.TempDir()

	stale := MemberLinks
	stale.Version = 0
	path := stale.Path(workDir)
	require.NoError(t, stale.Write(path, nil))

	_, err := MemberLinks.Read(path)
	require.ErrorContains(t, err, "re-run the stage")
}

func TestReadRejectsForeignArtifact(t *testing.T) {
	workDir := t.TempDir()
	path := filepath.Join(workDir, "travel_reports.csv")
	require.NoError(t, MemberLinks.Write(path, nil))

	_, err := TravelReports.Read(path)
	require.ErrorContains(t, err, "not a current travel_reports artifact")
}

func TestReadMissing(t *testing.T) {
	_, err := MemberLinks.Read(filepath.Join(t.TempDir(), "member_links.csv"))
	require.True(t, os.IsNotExist(err))
}

func TestInspect(t *testing.T) {
	workDir := t.TempDir()

	info := MemberLinks.Inspect(workDir)
	require.False(t, info.Exists)
	require.Equal(t, MemberLinks.Version, info.Version)

	require.NoError(t, MemberLinks.Write(MemberLinks.Path(workDir), []clerk.MemberLink{
		{Slug: "A", Name: "A"}, {Slug: "B", Name: "B"},
	}))
	info = MemberLinks.Inspect(workDir)
	require.True(t, info.Exists)
	require.NoError(t, info.ReadErr)
	require.Equal(t, 2, info.Records)
	require.False(t, info.ModTime.IsZero())
}
