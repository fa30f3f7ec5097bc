package warehouse

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/drewzambelli/wtml/internal/roster"
	"github.com/drewzambelli/wtml/internal/warehouse/db"
	"github.com/drewzambelli/wtml/lib/scrapers/clerk"
	"github.com/drewzambelli/wtml/lib/scrapers/disclosures"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("wtml.internal.warehouse")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Open connects to the report warehouse. remote urls go through the
// libsql driver, anything else is treated as a local sqlite file and
// created on first use.
func Open(databaseUrl, authToken string) (*sql.DB, error) {
	if databaseUrl == "" {
		return nil, fmt.Errorf("no database url configured")
	}

	remote := strings.HasPrefix(databaseUrl, "libsql://") ||
		strings.HasPrefix(databaseUrl, "https://") ||
		strings.HasPrefix(databaseUrl, "wss://")
	if remote {
		if authToken != "" {
			values := url.Values{}
			values.Add("authToken", authToken)
			databaseUrl = databaseUrl + "?" + values.Encode()
		}
		return sql.Open("libsql", databaseUrl)
	}

	_, statErr := os.Stat(databaseUrl)
	if os.IsNotExist(statErr) {
		f, err := os.Create(databaseUrl)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	sqlite, err := sql.Open("sqlite", databaseUrl)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	sqlite.SetMaxOpenConns(1)
	_, err = sqlite.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	return sqlite, nil
}

// EnsureSchema applies the embedded schema. statements are executed
// one at a time because the remote libsql driver rejects batched
// execs.
func (s Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(db.Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// NaturalKey identifies a travel report across runs. DocID alone is
// not unique in the published filings, amendments and multi-leg trips
// reuse it.
func NaturalKey(r disclosures.TravelReport) string {
	h := md5.New()
	io.WriteString(h, strings.Join([]string{
		r.DocID, r.MemberFullName, r.FilerFirstName, r.FilerLastName,
		r.DepartureDate, r.ReturnDate, r.DestinationCity, r.DestinationState,
		r.TravelSponsor, strconv.Itoa(r.ReportYear),
	}, "|"))
	return hex.EncodeToString(h.Sum(nil))
}

type RosterStats struct {
	Members int
	Staff   int
	Failed  int
}

// UploadRoster upserts the member roster and the staff contact table
// in one transaction. a row that fails to write is logged and skipped
// so one bad record never sinks the batch, only connection-level
// errors are fatal. rerunning with the same artifact is a no-op apart
// from refreshed timestamps.
func (s Store) UploadRoster(ctx context.Context, members []roster.Member) (RosterStats, error) {
	ctx, span := tracer.Start(ctx, "store:UploadRoster")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RosterStats{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	var stats RosterStats
	for _, m := range members {
		err := txqry.UpsertMember(ctx, memberRow(m))
		if err != nil {
			slog.WarnContext(ctx, "failed to upsert member, skipping",
				"table", "members", "slug", m.Slug, "err", err)
			stats.Failed++
			continue
		}
		stats.Members++

		err = txqry.UpsertStaff(ctx, staffRow(m))
		if err != nil {
			slog.WarnContext(ctx, "failed to upsert staff row",
				"table", "staff", "slug", m.Slug, "err", err)
			stats.Failed++
			continue
		}
		stats.Staff++
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return RosterStats{}, err
	}
	return stats, nil
}

type ReportStats struct {
	Total    int
	Inserted int
	Updated  int
	Linked   int
	Unlinked int
	Failed   int
}

// UploadReports upserts travel reports keyed by their natural key and
// resolves member references through the reconciler. reports whose
// member cannot be resolved still land, with a null member reference.
// row failures are logged and skipped like UploadRoster.
func (s Store) UploadReports(ctx context.Context, reports []disclosures.TravelReport, rec *roster.Reconciler) (ReportStats, error) {
	ctx, span := tracer.Start(ctx, "store:UploadReports")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReportStats{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	before, err := txqry.CountTravelReports(ctx)
	if err != nil {
		return ReportStats{}, err
	}

	var stats ReportStats
	for _, r := range reports {
		var memberID sql.NullInt64
		linked := false
		if rec != nil {
			member, ok := rec.Match(r.MemberFullName, r.MemberState, r.MemberDistrict)
			if ok {
				memberID = sql.NullInt64{Int64: member.MemberID, Valid: true}
				linked = true
			}
		}

		err := txqry.UpsertTravelReport(ctx, reportRow(r, memberID))
		if err != nil {
			slog.WarnContext(ctx, "failed to upsert travel report, skipping",
				"table", "travel_reports", "doc_id", r.DocID, "err", err)
			stats.Failed++
			continue
		}
		stats.Total++
		if linked {
			stats.Linked++
		} else {
			stats.Unlinked++
		}
	}

	after, err := txqry.CountTravelReports(ctx)
	if err != nil {
		return ReportStats{}, err
	}
	stats.Inserted = int(after - before)
	stats.Updated = stats.Total - stats.Inserted

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return ReportStats{}, err
	}
	return stats, nil
}

// Counts reports warehouse totals for run summaries.
type Counts struct {
	Members       int64
	Reports       int64
	LinkedReports int64
}

func (s Store) Counts(ctx context.Context) (Counts, error) {
	members, err := s.qry.CountMembers(ctx)
	if err != nil {
		return Counts{}, err
	}
	reports, err := s.qry.CountTravelReports(ctx)
	if err != nil {
		return Counts{}, err
	}
	linked, err := s.qry.CountLinkedTravelReports(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Members: members, Reports: reports, LinkedReports: linked}, nil
}

func memberRow(m roster.Member) db.Member {
	return db.Member{
		MemberID:  m.MemberID,
		Slug:      m.Slug,
		Name:      m.FullName,
		State:     m.State,
		District:  m.District,
		Hometown:  m.Hometown,
		Party:     m.Party,
		Office:    m.Office,
		Phone:     m.Phone,
		Website:   m.Website,
		Email:     m.Email,
		Headshot:  m.HeadshotUrl,
		C1:        slotName(m.Committees, 0),
		C1link:    slotLink(m.Committees, 0),
		C2:        slotName(m.Committees, 1),
		C2link:    slotLink(m.Committees, 1),
		C3:        slotName(m.Committees, 2),
		C3link:    slotLink(m.Committees, 2),
		C4:        slotName(m.Committees, 3),
		C4link:    slotLink(m.Committees, 3),
		Sc1:       slotName(m.Subcommittees, 0),
		Sc1link:   slotLink(m.Subcommittees, 0),
		Sc2:       slotName(m.Subcommittees, 1),
		Sc2link:   slotLink(m.Subcommittees, 1),
		Sc3:       slotName(m.Subcommittees, 2),
		Sc3link:   slotLink(m.Subcommittees, 2),
		Sc4:       slotName(m.Subcommittees, 3),
		Sc4link:   slotLink(m.Subcommittees, 3),
		ScrapedAt: encodeTime(m.ScrapedAt),
	}
}

func staffRow(m roster.Member) db.Staff {
	return db.Staff{
		MemberID: m.MemberID,
		Name:     m.FullName,
		State:    m.State,
		District: m.District,
		Office:   m.Office,
		Phone:    m.Phone,
		Website:  m.Website,
	}
}

func reportRow(r disclosures.TravelReport, memberID sql.NullInt64) db.TravelReport {
	return db.TravelReport{
		NaturalKey:     NaturalKey(r),
		DocID:          r.DocID,
		MemberID:       memberID,
		ReportYear:     int64(r.ReportYear),
		FilingType:     r.FilingType,
		FilerFirst:     r.FilerFirstName,
		FilerLast:      r.FilerLastName,
		MemberName:     r.MemberFullName,
		MemberState:    r.MemberState,
		MemberDistrict: r.MemberDistrict,
		DestCity:       r.DestinationCity,
		DestState:      r.DestinationState,
		DepartDate:     r.DepartureDate,
		ReturnDate:     r.ReturnDate,
		TravelSponsor:  r.TravelSponsor,
		ScrapedAt:      encodeTime(r.ScrapedAt),
	}
}

func slotName(committees []clerk.Committee, i int) string {
	if i < len(committees) {
		return committees[i].Name
	}
	return ""
}

func slotLink(committees []clerk.Committee, i int) string {
	if i < len(committees) {
		return committees[i].Link
	}
	return ""
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
