package main

import (
	"context"
	"kreditradar-backend/cmd/kreditradar/commands"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "kreditradar")
	commands.ExecuteContext(serviceutil.SignalContext())
}
