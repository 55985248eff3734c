package main

// Run the diagnostic engines against an intake file:
//   go run ./cmd/diagnose preview intake.json
//   cat intake.json | go run ./cmd/diagnose pack --mode DEEP

import (
	"os"

	"clarity-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
