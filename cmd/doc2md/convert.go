// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/internal/container"
	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/history"
	"github.com/pdiddy/doc2md/internal/runner"
	"github.com/pdiddy/doc2md/internal/tui"
	"github.com/pdiddy/doc2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input-folder>",
	Short: "Convert every document below a folder to Markdown",
	Long: `Convert scans the input folder recursively for .docx, .xls and .xlsx
files, skipping Office lock files (~$*) and earlier *_md output folders, and
writes one Markdown file per document into a new <folder>_md folder.

Backends:
  auto        native converters for .docx/.xlsx, markitdown for .xls
  native      native converters only (.xls files fail)
  markitdown  every file through the markitdown container (docker or podman)

The command exits non-zero when the run could not start or when any file
failed to convert.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("backend", "", "conversion backend: auto, native, or markitdown (default from config)")
	convertCmd.Flags().Bool("no-tui", false, "print plain progress lines instead of the interactive view")
	convertCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	_ = viper.BindPFlag("backend", convertCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	noTUI, _ := cmd.Flags().GetBool("no-tui")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	inputDir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	router, err := newRouter(cfg)
	if err != nil {
		return err
	}

	p := &runner.Pipeline{Converter: router, Config: cfg}
	if !noHistory && cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "History disabled: %v\n", err)
		} else {
			defer store.Close()
			p.History = store
		}
	}

	var summary *types.RunSummary
	if noTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		summary, err = convertPlain(p, inputDir, os.Stdout)
	} else {
		summary, err = convertInteractive(p, inputDir)
	}
	if err != nil {
		return err
	}

	fmt.Println(tui.RenderSummary(tui.SummaryRows(*summary)))
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to convert, see %s", summary.FailureCount, summary.LogPath)
	}
	return nil
}

// newRouter builds the converter for cfg.Backend. The markitdown container
// is required only by the markitdown backend; under auto its absence only
// makes .xls files fail.
func newRouter(cfg types.Config) (*convert.Router, error) {
	if cfg.Backend == types.BackendNative {
		return convert.NewRouter(cfg.Backend, nil)
	}

	md, err := newMarkitdown(cfg.MarkitdownImage)
	if err != nil {
		if cfg.Backend == types.BackendMarkitdown {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "markitdown unavailable, .xls files will fail: %v\n", err)
		return convert.NewRouter(cfg.Backend, nil)
	}
	return convert.NewRouter(cfg.Backend, md)
}

func newMarkitdown(image string) (*convert.MarkitdownConverter, error) {
	rt, err := container.DetectRuntime()
	if err != nil {
		return nil, err
	}
	return convert.NewMarkitdownConverter(rt, image)
}

// convertInteractive runs the conversion behind the bubbletea progress view.
func convertInteractive(p *runner.Pipeline, inputDir string) (*types.RunSummary, error) {
	model := tui.NewModel(inputDir)
	program := tea.NewProgram(model)

	ctrl := runner.NewController(p, tui.Dispatcher(program), model.Callbacks())
	ctrl.Start(inputDir)

	_, uiErr := program.Run()
	ctrl.Wait()

	st := model.State()
	switch {
	case st.Err != nil:
		return nil, fmt.Errorf("conversion failed: %w", st.Err)
	case st.Summary != nil:
		return st.Summary, nil
	case uiErr != nil:
		return nil, fmt.Errorf("progress view: %w", uiErr)
	default:
		return nil, errors.New("run ended without a result")
	}
}

// convertPlain runs the conversion on a plain event loop, printing one line
// per file to w.
func convertPlain(p *runner.Pipeline, inputDir string, w io.Writer) (*types.RunSummary, error) {
	loop := runner.NewEventLoop()

	var (
		summary *types.RunSummary
		runErr  error
	)
	cb := runner.Callbacks{
		OnStart: func(outputDir string, total int) {
			fmt.Fprintf(w, "Converting %d file(s) into %s\n", total, outputDir)
		},
		OnProgress: func(ev types.ProgressEvent) {
			fmt.Fprintf(w, "[%d/%d] %s\n", ev.Index, ev.Total, ev.CurrentFile)
		},
		OnComplete: func(s types.RunSummary) {
			summary = &s
			loop.Quit()
		},
		OnError: func(err error) {
			runErr = err
			loop.Quit()
		},
	}

	ctrl := runner.NewController(p, loop.Dispatch, cb)
	ctrl.Start(inputDir)
	loop.Run()
	ctrl.Wait()

	if runErr != nil {
		return nil, fmt.Errorf("conversion failed: %w", runErr)
	}
	return summary, nil
}
