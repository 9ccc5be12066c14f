package commands

import (
	"fmt"
	"io"
	"log/slog"

	authService "github.com/allisson/kaurna/internal/auth/service"
)

// RunCreateAPIToken generates a bearer token and prints it with its Argon2id hash. Only
// the hash belongs in AUTH_TOKEN_HASH; the token is shown once.
func RunCreateAPIToken(
	tokenService authService.TokenService,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	token, hash, err := tokenService.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate api token: %w", err)
	}

	logger.Info("api token created")

	if format == FormatJSON {
		return writeJSON(writer, map[string]string{
			"token":           token,
			"auth_token_hash": hash,
		})
	}

	_, _ = fmt.Fprintf(writer, "Token: %s\n", token)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "Add the hash to your environment:")
	_, err = fmt.Fprintf(writer, "AUTH_TOKEN_HASH='%s'\n", hash)
	return err
}
