// Package domain wires the deobfuscation engine to the filesystem, the
// reformatter and the UI.
package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/aymanbagabas/go-udiff"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/unrotate/internal/adapter"
	"github.com/mouse-blink/unrotate/internal/controller"
	"github.com/mouse-blink/unrotate/internal/domain/deob"
	m "github.com/mouse-blink/unrotate/internal/model"
)

const outputPerm = 0o644

// ErrOutputNeedsSingleInput is returned when an explicit output path is given
// for more than one input script.
var ErrOutputNeedsSingleInput = errors.New("an explicit output path needs exactly one input script")

// ErrNoScripts is returned when the provided paths contain no script files.
var ErrNoScripts = errors.New("no script files found")

// DeobfuscateArgs holds the arguments for a deobfuscation run.
type DeobfuscateArgs struct {
	Paths []m.Path
	// Output overrides the derived output path; only valid with one input.
	Output m.Path
	// Suffix replaces the input extension to name each output file.
	Suffix  string
	Threads int
	// Diff records a unified diff of the raw rewrite in every report.
	Diff bool
	// Stdout hands the readable script to the UI instead of writing it.
	Stdout  bool
	Decoder string
	Format  m.FormatOptions
	// Exclude drops collected scripts whose path matches any of these
	// regular expressions.
	Exclude []string
}

// InspectArgs holds the arguments for inspecting a single script.
type InspectArgs struct {
	Path    m.Path
	Decoder string
}

// Workflow defines the deobfuscation operations exposed to the CLI.
type Workflow interface {
	Deobfuscate(ctx context.Context, args DeobfuscateArgs) error
	Inspect(args InspectArgs) error
	Watch(ctx context.Context, args DeobfuscateArgs) error
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	formatter adapter.Formatter
	ui        controller.UI
	logger    log.Interface

	warnFormatter sync.Once
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
// A nil logger discards all log output.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, formatter adapter.Formatter, ui controller.UI, logger log.Interface) Workflow {
	if logger == nil {
		logger = &log.Logger{Handler: discard.Default, Level: log.FatalLevel}
	}

	return &workflow{
		fsAdapter: fsAdapter,
		formatter: formatter,
		ui:        ui,
		logger:    logger,
	}
}

func (w *workflow) Deobfuscate(ctx context.Context, args DeobfuscateArgs) error {
	args = withDefaults(args)

	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return err
	}

	paths, err := w.collect(args, exclude)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return ErrNoScripts
	}

	if args.Output != "" && len(paths) != 1 {
		return ErrOutputNeedsSingleInput
	}

	if err := w.ui.Start(controller.WithBatchMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	threads := min(args.Threads, len(paths))
	w.ui.DisplayBatchInfo(len(paths), threads)

	reports, err := w.runBatch(ctx, paths, threads, args)

	w.ui.DisplaySummary(reports)
	w.ui.Wait()

	return err
}

type excludeFilter []*regexp.Regexp

func compileExcludes(exprs []string) (excludeFilter, error) {
	filter := make(excludeFilter, 0, len(exprs))

	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		filter = append(filter, re)
	}

	return filter, nil
}

func (f excludeFilter) excludes(path string) bool {
	for _, re := range f {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// collect lists the input scripts without the excluded ones.
func (w *workflow) collect(args DeobfuscateArgs, exclude excludeFilter) ([]m.Path, error) {
	found, err := w.fsAdapter.Get(args.Paths, args.Suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to collect scripts: %w", err)
	}

	paths := make([]m.Path, 0, len(found))

	for _, path := range found {
		if exclude.excludes(string(path)) {
			w.logger.WithField("file", path).Debug("excluded")

			continue
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// runBatch processes paths with a fixed pool of workers. The first failure
// stops the pool; files already written are kept.
func (w *workflow) runBatch(ctx context.Context, paths []m.Path, threads int, args DeobfuscateArgs) ([]m.Report, error) {
	group, ctx := errgroup.WithContext(ctx)

	jobs := make(chan m.Path)
	reports := make([]m.Report, 0, len(paths))

	var mu sync.Mutex

	for threadID := range threads {
		group.Go(func() error {
			for path := range jobs {
				if ctx.Err() != nil {
					return nil
				}

				w.ui.DisplayStartingFile(path, threadID)

				report := w.processFile(ctx, path, args)

				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()

				w.ui.DisplayCompletedFile(report)

				if report.Failed() {
					return fmt.Errorf("%s: %w", path, report.Err)
				}
			}

			return nil
		})
	}

	group.Go(func() error {
		defer close(jobs)

		for _, path := range paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return nil
			}
		}

		return nil
	})

	err := group.Wait()

	return reports, err
}

// processFile runs one script through the engine and the reformatter and
// stores the readable result. Nothing is written when any step fails.
func (w *workflow) processFile(ctx context.Context, path m.Path, args DeobfuscateArgs) m.Report {
	report := m.Report{Origin: path}

	logger := w.logger.WithField("file", path)

	src, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("failed to read script: %w", err)

		return report
	}

	report.InputSize = src.Size

	text := deob.StripExports(src.Text)

	res, err := deob.Deobfuscate(text, deob.Options{DecoderName: args.Decoder, Logger: logger})
	if err != nil {
		report.Err = err

		return report
	}

	report.UniqueIndices = res.Stats.UniqueIndices
	report.Aliases = res.Stats.Aliases
	report.CallSites = res.Stats.CallSites
	report.Rotations = res.Inspection.Rotations

	report.Output = args.Output
	if report.Output == "" {
		report.Output = w.fsAdapter.OutputPath(path, args.Suffix)
	}

	if args.Diff {
		report.Diff = udiff.Unified(string(path), string(report.Output), text, res.Text)
	}

	readable, err := w.format(ctx, res.Text, args.Format)
	if err != nil {
		report.Err = err

		return report
	}

	report.OutputSize = int64(len(readable))

	if args.Stdout {
		report.Output = ""

		if err := w.ui.DisplayScript(path, readable); err != nil {
			report.Err = fmt.Errorf("failed to print script: %w", err)
		}

		return report
	}

	if err := w.fsAdapter.WriteFile(report.Output, []byte(readable), outputPerm); err != nil {
		report.Err = fmt.Errorf("failed to write %s: %w", report.Output, err)

		return report
	}

	logger.WithField("output", report.Output).Info("wrote readable script")

	return report
}

// format runs the reformatter. A missing formatter binary is reported once
// and the raw rewrite is kept.
func (w *workflow) format(ctx context.Context, text string, opts m.FormatOptions) (string, error) {
	readable, err := w.formatter.Format(ctx, text, opts)
	if errors.Is(err, adapter.ErrFormatterUnavailable) {
		w.warnFormatter.Do(func() {
			w.logger.WithError(err).Warn("writing unformatted output")
		})

		return text, nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to format output: %w", err)
	}

	return readable, nil
}

func (w *workflow) Inspect(args InspectArgs) error {
	src, err := w.fsAdapter.ReadFile(args.Path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	insp, err := deob.Analyze(deob.StripExports(src.Text), deob.Options{
		DecoderName: args.Decoder,
		Logger:      w.logger.WithField("file", args.Path),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", args.Path, err)
	}

	insp.Origin = args.Path

	if err := w.ui.Start(controller.WithInspectMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayInspection(insp); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

func withDefaults(args DeobfuscateArgs) DeobfuscateArgs {
	if args.Threads <= 0 {
		args.Threads = 1
	}

	if args.Suffix == "" {
		args.Suffix = m.DefaultOutputSuffix
	}

	return args
}
