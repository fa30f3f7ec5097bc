package roster

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/drewzambelli/wtml/lib/scrapers/clerk"
	"github.com/drewzambelli/wtml/lib/textutil"
)

// flattened committee/subcommittee columns carried per member
const CommitteeSlots = 4

// one row of the assembled roster, a directory entry merged with the
// attributes scraped off the member's biography page
type Member struct {
	MemberID      int64
	Slug          string
	FullName      string
	State         string
	District      string
	Hometown      string
	Party         string
	Office        string
	Phone         string
	Website       string
	Email         string
	HeadshotUrl   string
	Committees    []clerk.Committee
	Subcommittees []clerk.Committee
	ScrapedAt     time.Time
}

func NewMember(id int64, profile clerk.Profile, scrapedAt time.Time) Member {
	return Member{
		MemberID:      id,
		Slug:          profile.Slug,
		FullName:      profile.FullName,
		State:         profile.State,
		District:      profile.District,
		Hometown:      profile.Hometown,
		Party:         profile.Party,
		Office:        profile.Office,
		Phone:         profile.Phone,
		Website:       profile.Website,
		Email:         profile.Email,
		HeadshotUrl:   profile.HeadshotSrc,
		Committees:    capCommittees(profile.Committees),
		Subcommittees: capCommittees(profile.Subcommittees),
		ScrapedAt:     scrapedAt,
	}
}

func capCommittees(committees []clerk.Committee) []clerk.Committee {
	if len(committees) <= CommitteeSlots {
		return committees
	}
	return committees[:CommitteeSlots]
}

// identity key a member id derives from. name is folded so accent and
// honorific differences between scrapes do not mint new ids.
func memberKey(name, state, district string) string {
	return textutil.NormalizeName(name) +
		"|" + strings.ToLower(strings.TrimSpace(state)) +
		"|" + strings.ToLower(strings.TrimSpace(district))
}

func hashKey(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	// keep ids positive, they live in INTEGER columns downstream
	return int64(h.Sum64() & (1<<63 - 1))
}

// Assigner mints member ids. ids derive from the identity key alone
// so every run mints the same id for the same member, colliding keys
// fall back to a slug-salted hash and then probing.
type Assigner struct {
	byKey map[string]int64
	owner map[int64]string
}

func NewAssigner() *Assigner {
	return &Assigner{
		byKey: make(map[string]int64),
		owner: make(map[int64]string),
	}
}

func (a *Assigner) Assign(slug, name, state, district string) int64 {
	key := memberKey(name, state, district)
	if id, ok := a.byKey[key]; ok {
		return id
	}

	id := hashKey(key)
	if owner, taken := a.owner[id]; taken && owner != key {
		id = hashKey(key + "|" + slug)
		for {
			owner, taken := a.owner[id]
			if !taken || owner == key {
				break
			}
			id = (id + 1) & (1<<63 - 1)
		}
	}

	a.byKey[key] = id
	a.owner[id] = key
	return id
}
