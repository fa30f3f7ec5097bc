package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/drewzambelli/wtml/lib/timezone"
)

// Stats collects run counters across stages. Counters are atomics so
// a stage is free to fan work out without changing the bookkeeping.
type Stats struct {
	Started time.Time

	LinksCollected     atomic.Int64
	MembersExtracted   atomic.Int64
	MembersSkipped     atomic.Int64
	HeadshotsMirrored  atomic.Int64
	ArchivesDownloaded atomic.Int64
	ReportsExtracted   atomic.Int64
	RowsUploaded       atomic.Int64
	RowsFailed         atomic.Int64
	ReportsLinked      atomic.Int64
	ReportsUnlinked    atomic.Int64
}

func NewStats() *Stats {
	return &Stats{Started: timezone.Now()}
}

type StatRow struct {
	Name  string
	Value int64
}

func (s *Stats) Rows() []StatRow {
	return []StatRow{
		{"links collected", s.LinksCollected.Load()},
		{"members extracted", s.MembersExtracted.Load()},
		{"members skipped", s.MembersSkipped.Load()},
		{"headshots mirrored", s.HeadshotsMirrored.Load()},
		{"archives downloaded", s.ArchivesDownloaded.Load()},
		{"reports extracted", s.ReportsExtracted.Load()},
		{"rows uploaded", s.RowsUploaded.Load()},
		{"rows failed", s.RowsFailed.Load()},
		{"reports linked", s.ReportsLinked.Load()},
		{"reports unlinked", s.ReportsUnlinked.Load()},
	}
}

func (s *Stats) Elapsed() time.Duration {
	return timezone.Now().Sub(s.Started).Round(time.Second)
}
