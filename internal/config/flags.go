package config

import (
	"flag"
	"os"
	"time"
)

// parses CLI flags for the rebuild subcommand
func ParseRebuildFlags() Flags {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	path := fs.String("path", "", "PDF to index (defaults to the first PDF found in the documents directory)")
	clearFlag := fs.Bool("clear", false, "drop the local snapshot before rebuilding")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path, Clear: *clearFlag}
}

// parses CLI flags for the token subcommand
func ParseTokenFlags() TokenFlags {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "admin", "subject written into the admin token")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return TokenFlags{Subject: *subject, TTL: *ttl}
}

func subcommandArgs() []string {
	if len(os.Args) < 3 {
		return nil
	}

	return os.Args[2:]
}
