package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Mansoor88-6/time-tracker/internal/console"
	"Mansoor88-6/time-tracker/internal/export"
	"Mansoor88-6/time-tracker/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut   string
	exportFile  string
	exportSheet string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export every time entry to an xlsx workbook",
		RunE:  runExport,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "",
		"Output directory (defaults to export.output_dir)")
	exportCmd.Flags().StringVar(&exportFile, "file", "",
		"Workbook file name")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "",
		"Worksheet name")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	opts := service.ExportOptions()
	if exportFile != "" {
		opts.FileName = exportFile
	}
	if exportSheet != "" {
		opts.SheetName = exportSheet
	}
	dir := exportOut
	if dir == "" {
		dir = a.cfg.Export.OutputDir
	}

	pipeline := export.NewPipeline(export.Config{
		ChunkSize:  a.cfg.Export.ChunkSize,
		ChunkDelay: a.cfg.Export.ChunkDelay,
		MaxRows:    a.cfg.Export.MaxRows,
	}, a.log.Logger)

	rows, err := service.ExportRows(ctx, a.service.All())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	job := pipeline.Start(ctx, rows, opts)
	result, err := follow(ctx, job, console.NewProgress(os.Stdout, "Exporting"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	path, err := export.SaveFile(dir, result.FileName, result.Data)
	if err != nil {
		return err
	}

	a.log.Info("Export saved", zap.String("path", path), zap.Int("rows", result.Rows))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d entries to %s\n", result.Rows, path)
	return nil
}

// follow renders job progress until the terminal message arrives.
func follow(ctx context.Context, job *export.Job, bar *console.Progress) (export.Result, error) {
	defer bar.Done()
	for msg := range job.Messages() {
		switch msg.Status {
		case export.StatusProgress:
			bar.Update(msg.Progress)
		case export.StatusSuccess:
			bar.Update(100)
		}
	}
	return job.Wait(ctx)
}
