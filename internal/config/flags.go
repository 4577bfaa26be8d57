package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/formkiosk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   admin surface listen address
//	-d string   local database path
//	-b string   pending uploads directory
//	-r int      max upload retry attempts
//	-w int      idle warning threshold in seconds
//	-t int      idle reset threshold in seconds
//	-p string   connectivity probe address (host:port)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-r", "-w", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AdminAddr, "a", cfg.AdminAddr, "admin surface listen address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "pending uploads directory")
	retries := fs.Int("r", cfg.MaxRetryAttempts, "max upload retry attempts")
	warning := fs.Int("w", int(cfg.IdleWarning.Seconds()), "idle warning threshold (in seconds)")
	reset := fs.Int("t", int(cfg.IdleReset.Seconds()), "idle reset threshold (in seconds)")
	fs.StringVar(&cfg.ProbeAddr, "p", cfg.ProbeAddr, "connectivity probe address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.MaxRetryAttempts = *retries
	cfg.IdleWarning = time.Duration(*warning) * time.Second
	cfg.IdleReset = time.Duration(*reset) * time.Second
}
