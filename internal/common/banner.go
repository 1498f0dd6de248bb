package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// storageTarget describes where records are kept for the configured backend.
func storageTarget(cfg StorageConfig) string {
	if cfg.Backend == BackendSurrealDB {
		return fmt.Sprintf("%s (%s/%s)", cfg.Address, cfg.Namespace, cfg.Database)
	}
	return cfg.Path
}

// PrintBanner writes the startup banner to w and logs the same facts.
func PrintBanner(w io.Writer, config *Config, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 60
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` ___ _       __  __         _     _`,
		`| __(_)_ _  |  \/  |___  __| |___| |`,
		`| _|| | ' \ | |\/| / _ \/ _' / -_) |`,
		`|_| |_|_||_||_|  |_\___/\__,_\___|_|`,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Financial Modeling & Simulation Engine%s\n\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	target := storageTarget(config.Storage)
	kvPad := 14
	for _, kv := range [][2]string{
		{"Version", Version},
		{"Build", Build},
		{"Commit", GitCommit},
		{"Environment", config.Environment},
		{"Storage", config.Storage.Backend},
		{"Location", target},
	} {
		fmt.Fprintf(w, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Debug().
		Str("version", Version).
		Str("environment", config.Environment).
		Str("storage_backend", config.Storage.Backend).
		Str("storage_location", target).
		Msg("finmodel started")
}
