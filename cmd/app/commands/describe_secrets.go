package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// RunDescribeSecrets prints the metadata of every matching secret version.
func RunDescribeSecrets(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	version uint,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	description, err := secretUseCase.DescribeSecrets(ctx, name, version)
	if err != nil {
		return fmt.Errorf("failed to describe secrets: %w", err)
	}

	logger.Debug("secrets described", slog.Int("names", len(description)))

	if format == FormatJSON {
		return writeJSON(writer, description)
	}
	return writeDescriptionText(writer, description)
}

func writeDescriptionText(writer io.Writer, description secretsDomain.Description) error {
	if len(description) == 0 {
		_, err := fmt.Fprintln(writer, "No secrets found.")
		return err
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tVERSION\tCREATED\tLAST ROTATION\tDEPRECATED\tAUTHORIZED ENTITIES")
	for _, name := range slices.Sorted(maps.Keys(description)) {
		versions := description[name]
		for _, version := range slices.Sorted(maps.Keys(versions)) {
			meta := versions[version]
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\t%s\n",
				name,
				version,
				formatUnix(meta.CreateDate),
				formatUnix(meta.LastDataKeyRotation),
				meta.Deprecated,
				strings.Join(meta.AuthorizedEntities, ","),
			)
		}
	}
	return tw.Flush()
}

func formatUnix(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(time.RFC3339)
}
