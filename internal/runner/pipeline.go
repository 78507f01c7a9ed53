// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes conversion runs: one input folder in, one new
// output folder of Markdown files, a run log and a manifest out.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/plan"
	"github.com/pdiddy/doc2md/internal/postprocess"
	"github.com/pdiddy/doc2md/internal/runlog"
	"github.com/pdiddy/doc2md/internal/scan"
	"github.com/pdiddy/doc2md/pkg/types"
)

// Recorder stores finished runs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, startedAt, finishedAt time.Time, summary types.RunSummary, files []types.FileOutcome) (int64, error)
}

// Observer receives notifications from Pipeline.Run on the calling
// goroutine. Nil fields are skipped.
type Observer struct {
	OnStart    func(outputDir string, total int)
	OnProgress func(types.ProgressEvent)
}

// Pipeline converts every supported document under an input folder.
type Pipeline struct {
	Converter convert.Converter
	Processor convert.Processor
	Config    types.Config

	// History, when set, receives the finished run.
	History Recorder

	// Now defaults to time.Now.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run converts inputDir into a newly created output folder. Errors returned
// are fatal for the whole run: a missing or non-directory input, an output
// folder that cannot be created, or a failed scan. Per-file failures are
// logged and counted in the summary instead.
func (p *Pipeline) Run(ctx context.Context, inputDir string, obs Observer) (types.RunSummary, error) {
	cfg := p.Config.WithDefaults()
	startedAt := p.now()

	if err := scan.CheckInputDir(inputDir); err != nil {
		return types.RunSummary{}, err
	}

	planner := plan.Planner{MaxAttempts: cfg.MaxCollisions}
	outputDir, err := planner.OutputDir(inputDir)
	if err != nil {
		return types.RunSummary{}, err
	}
	if err := os.Mkdir(outputDir, 0o755); err != nil {
		return types.RunSummary{}, fmt.Errorf("creating output folder: %w", err)
	}

	logPath := filepath.Join(outputDir, cfg.LogFile)
	runLog, err := runlog.Open(logPath)
	if err != nil {
		return types.RunSummary{}, err
	}
	defer runLog.Close()
	log := runLog.Logger

	log.Info(fmt.Sprintf("Input folder: %s", inputDir))

	files, err := scan.InputFiles(inputDir)
	if err != nil {
		log.Error(fmt.Sprintf("Scan failed: %v", err))
		return types.RunSummary{}, err
	}

	summary := types.RunSummary{
		InputDir:  inputDir,
		OutputDir: outputDir,
		LogPath:   logPath,
		Total:     len(files),
	}
	if obs.OnStart != nil {
		obs.OnStart(outputDir, summary.Total)
	}
	if summary.Total == 0 {
		log.Warn("No target files were found.")
	}

	outcomes := make([]types.FileOutcome, 0, len(files))
	for i, path := range files {
		if obs.OnProgress != nil {
			obs.OnProgress(types.ProgressEvent{Index: i + 1, Total: summary.Total, CurrentFile: path})
		}

		outcome := p.convertFile(log, planner, path, inputDir, outputDir)
		if outcome.Status == types.FileConverted {
			summary.SuccessCount++
			summary.WarningCount += len(outcome.Warnings)
		} else {
			summary.FailureCount++
		}
		outcomes = append(outcomes, outcome)
	}

	log.Info(fmt.Sprintf("Completed. total=%d success=%d failure=%d warnings=%d",
		summary.Total, summary.SuccessCount, summary.FailureCount, summary.WarningCount))

	finishedAt := p.now()
	m := Manifest{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Backend:    cfg.Backend,
		Summary:    summary,
		Files:      outcomes,
	}
	if err := WriteManifest(filepath.Join(outputDir, cfg.ManifestFile), m); err != nil {
		log.Warn(fmt.Sprintf("Manifest not written: %v", err))
	}

	if p.History != nil {
		if _, err := p.History.Record(ctx, startedAt, finishedAt, summary, outcomes); err != nil {
			log.Warn(fmt.Sprintf("History not recorded: %v", err))
		}
	}

	return summary, nil
}

// convertFile converts, plans and writes one file. Any failure is logged
// and reported in the returned outcome.
func (p *Pipeline) convertFile(log *slog.Logger, planner plan.Planner, path, inputDir, outputDir string) types.FileOutcome {
	outcome := types.FileOutcome{Source: path}
	fail := func(err error) types.FileOutcome {
		log.Error(fmt.Sprintf("FAILED: %s: %v", path, err))
		outcome.Status = types.FileFailed
		outcome.Error = err.Error()
		return outcome
	}

	result, err := p.Processor.Document(p.Converter, path)
	if err != nil {
		return fail(err)
	}

	outputFile, err := planner.OutputFile(path, inputDir, outputDir)
	if err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fail(fmt.Errorf("creating folder for %s: %w", outputFile, err))
	}
	if err := os.WriteFile(outputFile, []byte(result.Markdown), 0o644); err != nil {
		return fail(fmt.Errorf("writing %s: %w", outputFile, err))
	}

	log.Info(fmt.Sprintf("SUCCESS: %s -> %s", path, outputFile))
	for _, w := range result.Warnings {
		log.Warn(fmt.Sprintf("%s: %s", path, w))
	}

	outcome.Status = types.FileConverted
	outcome.Output = outputFile
	outcome.Warnings = result.Warnings
	outcome.Outline = postprocess.OutlineStrings(result.Markdown)
	return outcome
}
