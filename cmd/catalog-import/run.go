package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog-import/internal/application"
	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/logging"
)

type runOptions struct {
	file         string
	chunkSize    int
	dryRun       bool
	jsonOut      bool
	errorsOut    string
	failOnErrors bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import a .xlsx or .csv catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Spreadsheet to import (required)")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "Rows per upsert chunk (default: IMPORT_CHUNK_SIZE)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate and upsert into an in-memory store only")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&opts.errorsOut, "errors-out", "", "Also write the error log to this path")
	cmd.Flags().BoolVar(&opts.failOnErrors, "fail-on-errors", false, "Exit with status 3 when any row failed")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(cmd *cobra.Command, opts runOptions) error {
	if opts.chunkSize < 0 {
		return withCode(exitUsage, fmt.Errorf("invalid --chunk-size %d", opts.chunkSize))
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read --file: %w", err))
	}

	load := config.Load
	if opts.dryRun {
		load = config.LoadOffline
	}
	cfg, err := load()
	if err != nil {
		return withCode(exitUsage, err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx := cmd.Context()
	fileName := filepath.Base(opts.file)
	logger := logging.ForImport(ctx, "cli", fileName)

	app, err := application.New(ctx, cfg, application.Options{Offline: opts.dryRun, Logger: logger})
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Service.Import(ctx, fileName, data, opts.chunkSize)
	if err != nil && result.RunID == "" {
		return core.NewUserError(err)
	}
	if err != nil {
		logger.Warn("error log not stored", "error", err)
	}

	if opts.errorsOut != "" && len(result.Errors) > 0 {
		log := &core.ErrorLog{}
		for _, e := range result.Errors {
			log.Addf("%s", e)
		}
		if werr := os.WriteFile(opts.errorsOut, log.Bytes(), 0o644); werr != nil {
			return fmt.Errorf("write --errors-out: %w", werr)
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(cmd.OutOrStdout(), result, opts.dryRun)
	}

	if opts.failOnErrors && result.Status == core.StatusCompletedWithErrors {
		return withCode(exitPartial, fmt.Errorf("%d row error(s)", len(result.Errors)))
	}
	return nil
}

func printResult(w io.Writer, r core.ImportResult, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "dry run: nothing was written")
	}
	fmt.Fprintf(w, "run:       %s\n", r.RunID)
	fmt.Fprintf(w, "status:    %s\n", r.Status)
	fmt.Fprintf(w, "rows:      %d (%d valid)\n", r.TotalRows, r.ValidRows)
	fmt.Fprintf(w, "created:   %d\n", r.Created)
	fmt.Fprintf(w, "updated:   %d\n", r.Updated)

	if len(r.Errors) == 0 {
		return
	}
	fmt.Fprintf(w, "errors:    %d\n", len(r.Errors))
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	if r.ErrorArtifact != nil && !dryRun {
		fmt.Fprintf(w, "error log: %s\n", r.ErrorArtifact.Key)
	}
}
