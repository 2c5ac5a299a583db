package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/config"
)

// NewImportCmd bulk-imports questions from a text file ("-" reads stdin).
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import questions from a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runImport(ctx context.Context, cfg config.Config, path string, stdin io.Reader, out io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// imports never decorate, so no image resolver is needed
	service := app.NewQuizService(store, nil, 0)
	res, err := service.BulkAdd(ctx, string(data))
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintf(out, "skipped %v\n", skipped)
	}
	fmt.Fprintf(out, "imported %d questions (%d skipped)\n", len(res.Questions), len(res.Skipped))
	return nil
}
