package roster

import (
	"testing"
	"time"

	"github.com/drewzambelli/wtml/lib/scrapers/clerk"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAssignStableIDs(t *testing.T) {
	assigner := NewAssigner()

	velazquez := assigner.Assign("V000081", "Nydia Velazquez", "New York", "7th District")
	doe := assigner.Assign("D00001", "John Doe", "Texas", "5th District")
	require.NotZero(t, velazquez)
	require.Positive(t, velazquez)
	require.NotEqual(t, velazquez, doe)

	// accents and honorifics are presentation, not identity
	require.Equal(t, velazquez, assigner.Assign("V000081", "Rep. Nydia Velázquez", "New York", "7th District"))

	// a fresh run mints the same ids
	rerun := NewAssigner()
	require.Equal(t, doe, rerun.Assign("D00001", "John Doe", "Texas", "5th District"))
	require.Equal(t, velazquez, rerun.Assign("V000081", "Nydia Velazquez", "New York", "7th District"))
}

func TestAssignDistinguishesSameName(t *testing.T) {
	assigner := NewAssigner()
	texas := assigner.Assign("G000061", "Mike Garcia", "Texas", "23rd District")
	california := assigner.Assign("G000062", "Mike Garcia", "California", "27th District")
	require.NotEqual(t, texas, california)
}

func TestNewMember(t *testing.T) {
	scrapedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	profile := clerk.Profile{
		Slug:        "V000081",
		FullName:    "Nydia Velazquez",
		State:       "New York",
		District:    "7th District",
		Party:       "Democratic",
		Hometown:    "Brooklyn",
		Office:      "2302 Rayburn House Office Building",
		Phone:       "(202) 225-2361",
		Website:     "https://velazquez.house.gov",
		HeadshotSrc: "https://clerk.house.gov/images/V000081.jpg",
		Committees: []clerk.Committee{
			{Name: "Financial Services", Link: "https://financialservices.house.gov"},
			{Name: "Small Business", Link: "https://smallbusiness.house.gov"},
		},
		Subcommittees: []clerk.Committee{
			{Name: "Housing and Insurance", Link: "https://financialservices.house.gov/housing"},
		},
	}

	member := NewMember(42, profile, scrapedAt)
	require.Equal(t, int64(42), member.MemberID)
	require.Equal(t, "V000081", member.Slug)
	require.Equal(t, "Nydia Velazquez", member.FullName)
	require.Equal(t, "https://clerk.house.gov/images/V000081.jpg", member.HeadshotUrl)
	require.Equal(t, scrapedAt, member.ScrapedAt)
	require.Empty(t, cmp.Diff(profile.Committees, member.Committees))
	require.Empty(t, cmp.Diff(profile.Subcommittees, member.Subcommittees))
}

func TestNewMemberCapsCommittees(t *testing.T) {
	var committees []clerk.Committee
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		committees = append(committees, clerk.Committee{Name: name})
	}
	member := NewMember(1, clerk.Profile{FullName: "John Doe", Committees: committees}, time.Now())
	require.Len(t, member.Committees, CommitteeSlots)
}
