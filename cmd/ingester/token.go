package main

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/techcorp/supportbot/internal/auth"
	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

// prints a signed admin token for the management endpoints
func IssueToken(flags config.TokenFlags, w io.Writer) error {
	token, err := auth.GenerateJWT(flags.Subject, flags.TTL)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("issued admin token",
		"subject", flags.Subject,
		"expires_at", time.Now().Add(flags.TTL).Format(time.RFC3339),
	)

	_, err = fmt.Fprintln(w, token)
	return err
}
