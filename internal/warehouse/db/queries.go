package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertMember = `
INSERT INTO members (
    member_id, slug, name, state, district, hometown, party,
    office, phone, website, email, headshot,
    c_1, c_1link, c_2, c_2link, c_3, c_3link, c_4, c_4link,
    sc_1, sc_1link, sc_2, sc_2link, sc_3, sc_3link, sc_4, sc_4link,
    scraped_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(member_id) DO UPDATE SET
    slug = excluded.slug,
    name = excluded.name,
    state = excluded.state,
    district = excluded.district,
    hometown = excluded.hometown,
    party = excluded.party,
    office = excluded.office,
    phone = excluded.phone,
    website = excluded.website,
    email = excluded.email,
    headshot = excluded.headshot,
    c_1 = excluded.c_1,
    c_1link = excluded.c_1link,
    c_2 = excluded.c_2,
    c_2link = excluded.c_2link,
    c_3 = excluded.c_3,
    c_3link = excluded.c_3link,
    c_4 = excluded.c_4,
    c_4link = excluded.c_4link,
    sc_1 = excluded.sc_1,
    sc_1link = excluded.sc_1link,
    sc_2 = excluded.sc_2,
    sc_2link = excluded.sc_2link,
    sc_3 = excluded.sc_3,
    sc_3link = excluded.sc_3link,
    sc_4 = excluded.sc_4,
    sc_4link = excluded.sc_4link,
    scraped_at = excluded.scraped_at
`

func (q *Queries) UpsertMember(ctx context.Context, arg Member) error {
	_, err := q.db.ExecContext(ctx, upsertMember,
		arg.MemberID, arg.Slug, arg.Name, arg.State, arg.District,
		arg.Hometown, arg.Party, arg.Office, arg.Phone, arg.Website,
		arg.Email, arg.Headshot,
		arg.C1, arg.C1link, arg.C2, arg.C2link,
		arg.C3, arg.C3link, arg.C4, arg.C4link,
		arg.Sc1, arg.Sc1link, arg.Sc2, arg.Sc2link,
		arg.Sc3, arg.Sc3link, arg.Sc4, arg.Sc4link,
		arg.ScrapedAt,
	)
	return err
}

const upsertStaff = `
INSERT INTO staff (
    member_id, name, state, district, office, phone, website
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(member_id) DO UPDATE SET
    name = excluded.name,
    state = excluded.state,
    district = excluded.district,
    office = excluded.office,
    phone = excluded.phone,
    website = excluded.website
`

func (q *Queries) UpsertStaff(ctx context.Context, arg Staff) error {
	_, err := q.db.ExecContext(ctx, upsertStaff,
		arg.MemberID, arg.Name, arg.State, arg.District,
		arg.Office, arg.Phone, arg.Website,
	)
	return err
}

const upsertTravelReport = `
INSERT INTO travel_reports (
    natural_key, doc_id, member_id, report_year, filing_type,
    filer_first, filer_last, member_name, member_state, member_district,
    dest_city, dest_state, depart_date, return_date, travel_sponsor, scraped_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(natural_key) DO UPDATE SET
    doc_id = excluded.doc_id,
    member_id = excluded.member_id,
    report_year = excluded.report_year,
    filing_type = excluded.filing_type,
    filer_first = excluded.filer_first,
    filer_last = excluded.filer_last,
    member_name = excluded.member_name,
    member_state = excluded.member_state,
    member_district = excluded.member_district,
    dest_city = excluded.dest_city,
    dest_state = excluded.dest_state,
    depart_date = excluded.depart_date,
    return_date = excluded.return_date,
    travel_sponsor = excluded.travel_sponsor,
    scraped_at = excluded.scraped_at
`

func (q *Queries) UpsertTravelReport(ctx context.Context, arg TravelReport) error {
	_, err := q.db.ExecContext(ctx, upsertTravelReport,
		arg.NaturalKey, arg.DocID, arg.MemberID, arg.ReportYear,
		arg.FilingType, arg.FilerFirst, arg.FilerLast,
		arg.MemberName, arg.MemberState, arg.MemberDistrict,
		arg.DestCity, arg.DestState, arg.DepartDate, arg.ReturnDate,
		arg.TravelSponsor, arg.ScrapedAt,
	)
	return err
}

const getMember = `
SELECT member_id, slug, name, state, district, hometown, party,
    office, phone, website, email, headshot,
    c_1, c_1link, c_2, c_2link, c_3, c_3link, c_4, c_4link,
    sc_1, sc_1link, sc_2, sc_2link, sc_3, sc_3link, sc_4, sc_4link,
    scraped_at
FROM members WHERE member_id = ?
`

func (q *Queries) GetMember(ctx context.Context, memberID int64) (Member, error) {
	row := q.db.QueryRowContext(ctx, getMember, memberID)
	var m Member
	err := row.Scan(
		&m.MemberID, &m.Slug, &m.Name, &m.State, &m.District,
		&m.Hometown, &m.Party, &m.Office, &m.Phone, &m.Website,
		&m.Email, &m.Headshot,
		&m.C1, &m.C1link, &m.C2, &m.C2link,
		&m.C3, &m.C3link, &m.C4, &m.C4link,
		&m.Sc1, &m.Sc1link, &m.Sc2, &m.Sc2link,
		&m.Sc3, &m.Sc3link, &m.Sc4, &m.Sc4link,
		&m.ScrapedAt,
	)
	return m, err
}

const getStaff = `
SELECT member_id, name, state, district, office, phone, website
FROM staff WHERE member_id = ?
`

func (q *Queries) GetStaff(ctx context.Context, memberID int64) (Staff, error) {
	row := q.db.QueryRowContext(ctx, getStaff, memberID)
	var s Staff
	err := row.Scan(
		&s.MemberID, &s.Name, &s.State, &s.District,
		&s.Office, &s.Phone, &s.Website,
	)
	return s, err
}

const getTravelReportByNaturalKey = `
SELECT id, natural_key, doc_id, member_id, report_year, filing_type,
    filer_first, filer_last, member_name, member_state, member_district,
    dest_city, dest_state, depart_date, return_date, travel_sponsor, scraped_at
FROM travel_reports WHERE natural_key = ?
`

func (q *Queries) GetTravelReportByNaturalKey(ctx context.Context, naturalKey string) (TravelReport, error) {
	row := q.db.QueryRowContext(ctx, getTravelReportByNaturalKey, naturalKey)
	var r TravelReport
	err := row.Scan(
		&r.ID, &r.NaturalKey, &r.DocID, &r.MemberID, &r.ReportYear,
		&r.FilingType, &r.FilerFirst, &r.FilerLast,
		&r.MemberName, &r.MemberState, &r.MemberDistrict,
		&r.DestCity, &r.DestState, &r.DepartDate, &r.ReturnDate,
		&r.TravelSponsor, &r.ScrapedAt,
	)
	return r, err
}

const countMembers = `SELECT COUNT(*) FROM members`

func (q *Queries) CountMembers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMembers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countTravelReports = `SELECT COUNT(*) FROM travel_reports`

func (q *Queries) CountTravelReports(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTravelReports)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countLinkedTravelReports = `SELECT COUNT(*) FROM travel_reports WHERE member_id IS NOT NULL`

func (q *Queries) CountLinkedTravelReports(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLinkedTravelReports)
	var count int64
	err := row.Scan(&count)
	return count, err
}
