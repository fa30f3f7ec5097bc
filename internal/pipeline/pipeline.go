package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/drewzambelli/wtml/internal/stage"
)

var tracer = otel.Tracer("wtml.internal.pipeline")

// Pipeline wires the scrape stages together. Each stage reads the
// artifacts of earlier stages from the work directory and writes its
// own, so any stage can be re-run on its own between full runs.
type Pipeline struct {
	Config Config
	Creds  Credentials

	// command line overrides
	Years    []int
	MaxPages int
	NoUpload bool

	Stats *Stats
}

func New(config Config, creds Credentials) *Pipeline {
	return &Pipeline{
		Config: config,
		Creds:  creds,
		Stats:  NewStats(),
	}
}

type Stage struct {
	Name string
	// artifacts that must exist before the stage may run
	Needs []string
	// artifact the stage writes, informational
	Produces string
	Run      func(ctx context.Context) error
}

func (p *Pipeline) stages() []Stage {
	return []Stage{
		{
			Name:     "links",
			Produces: stage.MemberLinks.Name,
			Run:      p.RunLinks,
		},
		{
			Name:     "details",
			Needs:    []string{stage.MemberLinks.Name},
			Produces: stage.MemberDetails.Name,
			Run:      p.RunDetails,
		},
		{
			Name:     "reports",
			Produces: stage.TravelReports.Name,
			Run:      p.RunReports,
		},
		{
			Name:  "upload",
			Needs: []string{stage.MemberDetails.Name, stage.TravelReports.Name},
			Run:   p.RunUpload,
		},
	}
}

func (p *Pipeline) StageNames() []string {
	var names []string
	for _, s := range p.stages() {
		names = append(names, s.Name)
	}
	return names
}

// Run executes every stage in order. A stage failure aborts the run,
// partial artifacts never reach later stages because writes are atomic.
func (p *Pipeline) Run(ctx context.Context) error {
	stages := p.stages()
	if p.NoUpload {
		var kept []Stage
		for _, s := range stages {
			if s.Name != "upload" {
				kept = append(kept, s)
			}
		}
		stages = kept
	}
	return p.runStages(ctx, stages)
}

func (p *Pipeline) RunStage(ctx context.Context, name string) error {
	for _, s := range p.stages() {
		if s.Name == name {
			return p.runStages(ctx, []Stage{s})
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

func (p *Pipeline) runStages(ctx context.Context, stages []Stage) error {
	ctx, span := tracer.Start(ctx, "pipeline:Run")
	defer span.End()

	for _, s := range stages {
		err := p.verifyInputs(s)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "running stage", "stage", s.Name)
		err = s.Run(ctx)
		if err != nil {
			return fmt.Errorf("stage %s: %w", s.Name, err)
		}
	}
	return nil
}

func (p *Pipeline) verifyInputs(s Stage) error {
	for _, name := range s.Needs {
		info := p.artifactInfo(name)
		if !info.Exists {
			return fmt.Errorf(
				"stage %s needs %s which does not exist, run the earlier stages first",
				s.Name, info.Path,
			)
		}
		if info.ReadErr != nil {
			return fmt.Errorf("stage %s: %w", s.Name, info.ReadErr)
		}
	}
	return nil
}

func (p *Pipeline) artifactInfo(name string) stage.Info {
	switch name {
	case stage.MemberLinks.Name:
		return stage.MemberLinks.Inspect(p.Config.WorkDir)
	case stage.MemberDetails.Name:
		return stage.MemberDetails.Inspect(p.Config.WorkDir)
	case stage.TravelReports.Name:
		return stage.TravelReports.Inspect(p.Config.WorkDir)
	}
	return stage.Info{Name: name}
}

// Status reports every artifact the pipeline knows about, in the
// order the stages produce them.
func (p *Pipeline) Status() []stage.Info {
	return []stage.Info{
		stage.MemberLinks.Inspect(p.Config.WorkDir),
		stage.MemberDetails.Inspect(p.Config.WorkDir),
		stage.TravelReports.Inspect(p.Config.WorkDir),
	}
}
