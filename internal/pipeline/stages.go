package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drewzambelli/wtml/internal/headshots"
	"github.com/drewzambelli/wtml/internal/roster"
	"github.com/drewzambelli/wtml/internal/stage"
	"github.com/drewzambelli/wtml/internal/warehouse"
	"github.com/drewzambelli/wtml/lib/scrapers/clerk"
	"github.com/drewzambelli/wtml/lib/scrapers/disclosures"
	"github.com/drewzambelli/wtml/lib/timezone"
)

// RunLinks walks the member directory and writes one row per member
// profile link.
func (p *Pipeline) RunLinks(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "pipeline:RunLinks")
	defer span.End()

	client, err := clerk.NewClient(ctx, clerk.ClientOptions{
		BaseUrl:     p.Config.Clerk.BaseUrl,
		MaxRate:     p.Config.Clerk.MaxRate,
		JitterMinMs: p.Config.Clerk.JitterMinMs,
		JitterMaxMs: p.Config.Clerk.JitterMaxMs,
	})
	if err != nil {
		return err
	}

	links, err := client.CollectLinks(ctx, p.MaxPages)
	if err != nil {
		return err
	}
	p.Stats.LinksCollected.Add(int64(len(links)))

	path := stage.MemberLinks.Path(p.Config.WorkDir)
	err = stage.MemberLinks.Write(path, links)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote member links", "count", len(links), "path", path)
	return nil
}

// RunDetails visits every collected profile link, extracts the member
// detail page and mirrors the headshot. Individual members that fail
// to parse are skipped so one odd page cannot sink the whole roster.
func (p *Pipeline) RunDetails(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "pipeline:RunDetails")
	defer span.End()

	links, err := stage.MemberLinks.Read(stage.MemberLinks.Path(p.Config.WorkDir))
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return fmt.Errorf("%s is empty, re-run the link collector", stage.MemberLinks.Filename())
	}

	client, err := clerk.NewClient(ctx, clerk.ClientOptions{
		BaseUrl:     p.Config.Clerk.BaseUrl,
		MaxRate:     p.Config.Clerk.MaxRate,
		JitterMinMs: p.Config.Clerk.JitterMinMs,
		JitterMaxMs: p.Config.Clerk.JitterMaxMs,
	})
	if err != nil {
		return err
	}
	mirror, err := headshots.NewMirror(ctx, headshots.Options{
		Dir:     p.Config.Headshots.Dir,
		Bucket:  p.Config.Headshots.Bucket,
		BaseUrl: p.Config.Headshots.BaseUrl,
	})
	if err != nil {
		return err
	}

	assigner := roster.NewAssigner()
	seen := make(map[string]bool, len(links))
	var members []roster.Member
	var errList []error

	for _, link := range links {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if seen[link.Slug] {
			slog.WarnContext(ctx, "duplicate member slug, skipping", "slug", link.Slug)
			p.Stats.MembersSkipped.Add(1)
			continue
		}
		seen[link.Slug] = true

		profile, err := client.FetchProfile(ctx, link)
		if err != nil {
			slog.WarnContext(ctx, "failed to extract member, skipping", "slug", link.Slug, "err", err)
			errList = append(errList, fmt.Errorf("%s: %w", link.Slug, err))
			p.Stats.MembersSkipped.Add(1)
			continue
		}

		id := assigner.Assign(link.Slug, profile.FullName, profile.State, profile.District)
		member := roster.NewMember(id, profile, timezone.Now())
		p.mirrorHeadshot(ctx, client, mirror, profile, &member)

		members = append(members, member)
		p.Stats.MembersExtracted.Add(1)
	}

	if len(errList) > 0 {
		slog.WarnContext(ctx, "some members could not be extracted",
			"count", len(errList), "err", errors.Join(errList...))
	}
	if len(members) == 0 {
		return fmt.Errorf("no member details could be extracted, has the site layout changed?")
	}

	path := stage.MemberDetails.Path(p.Config.WorkDir)
	err = stage.MemberDetails.Write(path, members)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote member details",
		"count", len(members),
		"skipped", len(links)-len(members),
		"path", path,
	)
	return nil
}

// mirrorHeadshot is best effort, a member without a mirrored headshot
// keeps the source url.
func (p *Pipeline) mirrorHeadshot(
	ctx context.Context,
	client *clerk.Client,
	mirror *headshots.Mirror,
	profile clerk.Profile,
	member *roster.Member,
) {
	if profile.HeadshotSrc == "" {
		return
	}
	image, err := client.FetchHeadshot(ctx, profile)
	if err != nil {
		slog.WarnContext(ctx, "failed to download headshot", "slug", profile.Slug, "err", err)
		return
	}
	url, err := mirror.Save(ctx, profile.Slug, profile.HeadshotSrc, image)
	if err != nil {
		slog.WarnContext(ctx, "failed to mirror headshot", "slug", profile.Slug, "err", err)
		return
	}
	member.HeadshotUrl = url
	p.Stats.HeadshotsMirrored.Add(1)
}

// RunReports discovers the yearly travel archives and extracts every
// filing they contain. A single bad archive is skipped, a run that
// extracts nothing at all is an error.
func (p *Pipeline) RunReports(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "pipeline:RunReports")
	defer span.End()

	client, err := disclosures.NewClient(ctx, disclosures.ClientOptions{
		BaseUrl:     p.Config.Disclosures.BaseUrl,
		MaxRate:     p.Config.Disclosures.MaxRate,
		JitterMinMs: p.Config.Disclosures.JitterMinMs,
		JitterMaxMs: p.Config.Disclosures.JitterMaxMs,
	})
	if err != nil {
		return err
	}

	archives, err := client.DiscoverArchives(ctx, p.reportYears())
	if err != nil {
		return err
	}

	var reports []disclosures.TravelReport
	var errList []error
	for _, archive := range archives {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		extracted, err := client.FetchReports(ctx, archive)
		if err != nil {
			slog.WarnContext(ctx, "failed to process archive, skipping", "year", archive.Year, "err", err)
			errList = append(errList, fmt.Errorf("%d: %w", archive.Year, err))
			continue
		}
		p.Stats.ArchivesDownloaded.Add(1)
		p.Stats.ReportsExtracted.Add(int64(len(extracted)))
		reports = append(reports, extracted...)
	}
	if len(errList) > 0 {
		slog.WarnContext(ctx, "some archives could not be processed",
			"count", len(errList), "err", errors.Join(errList...))
	}
	if len(reports) == 0 {
		return fmt.Errorf("no travel reports extracted from %d archives", len(archives))
	}

	path := stage.TravelReports.Path(p.Config.WorkDir)
	err = stage.TravelReports.Write(path, reports)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote travel reports", "count", len(reports), "path", path)
	return nil
}

func (p *Pipeline) reportYears() []int {
	if len(p.Years) > 0 {
		return p.Years
	}
	if p.Config.YearFloor <= 0 || p.Config.YearFloor == disclosures.FirstFilingYear {
		// nil lets the client probe its default range
		return nil
	}
	var years []int
	for year := timezone.Now().Year(); year >= p.Config.YearFloor; year-- {
		years = append(years, year)
	}
	return years
}

// RunUpload pushes the roster and travel reports into the warehouse,
// linking each report to a roster member where a confident name match
// exists.
func (p *Pipeline) RunUpload(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "pipeline:RunUpload")
	defer span.End()

	members, err := stage.MemberDetails.Read(stage.MemberDetails.Path(p.Config.WorkDir))
	if err != nil {
		return err
	}
	reports, err := stage.TravelReports.Read(stage.TravelReports.Path(p.Config.WorkDir))
	if err != nil {
		return err
	}

	database, err := warehouse.Open(p.Creds.DatabaseUrl, p.Creds.AuthToken)
	if err != nil {
		return err
	}
	defer database.Close()

	store := warehouse.NewStore(database)
	err = store.EnsureSchema(ctx)
	if err != nil {
		return err
	}

	rosterStats, err := store.UploadRoster(ctx, members)
	if err != nil {
		return err
	}
	p.Stats.RowsUploaded.Add(int64(rosterStats.Members + rosterStats.Staff))
	p.Stats.RowsFailed.Add(int64(rosterStats.Failed))

	reportStats, err := store.UploadReports(ctx, reports, roster.NewReconciler(members))
	if err != nil {
		return err
	}
	p.Stats.RowsUploaded.Add(int64(reportStats.Total))
	p.Stats.RowsFailed.Add(int64(reportStats.Failed))
	p.Stats.ReportsLinked.Add(int64(reportStats.Linked))
	p.Stats.ReportsUnlinked.Add(int64(reportStats.Unlinked))

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "warehouse totals",
		"members", counts.Members,
		"reports", counts.Reports,
		"linked", counts.LinkedReports,
	)
	return nil
}
