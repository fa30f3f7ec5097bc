package main

import (
	"context"

	"github.com/drewzambelli/wtml/cmd/wtml/commands"
	"github.com/drewzambelli/wtml/lib/serviceutil"
	"github.com/drewzambelli/wtml/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "wtml")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
