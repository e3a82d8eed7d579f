package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/msoconvert/internal/cli"
	"github.com/linuxmatters/msoconvert/internal/config"
	"github.com/linuxmatters/msoconvert/internal/ui"
	"github.com/linuxmatters/msoconvert/internal/watch"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Config  string `short:"c" type:"path" help:"Path to TOML config file (optional)"`

	QMode     string   `name:"q-mode" group:"Conversion" help:"Q value to export: rbj or classic"`
	Include   []string `group:"Conversion" help:"Filter types to include, e.g. \"Parametric EQ\" (repeatable)"`
	Shared    string   `enum:"auto,combine,separate" default:"auto" group:"Conversion" help:"Shared sub filters: combine into channel files or write separately"`
	Equaliser string   `group:"Conversion" help:"Equaliser name written to each filter file"`

	Output         string   `short:"o" type:"path" group:"Output" help:"Output directory; several reports each get <output>/<report>-filters (default: <report>-filters next to each report)"`
	Logs           bool     `group:"Output" help:"Save a conversion log with the filter files"`
	SettingsReport bool     `name:"settings-report" group:"Output" help:"Write a delay, gain and polarity report"`
	DelayUnit      string   `name:"delay-unit" group:"Output" help:"Preferred delay unit in the settings report: ms, m or ft"`
	DelayOffset    *float64 `name:"delay-offset" group:"Output" help:"Milliseconds added to every delay in the settings report"`

	Watch bool `short:"w" group:"Interface" help:"Re-convert reports whenever they change"`
	Plain bool `group:"Interface" help:"Print a plain summary instead of the interactive view"`
	Debug bool `group:"Interface" help:"Write msoconvert-debug.log"`

	Files []string `arg:"" name:"reports" help:"Filter reports to convert" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("msoconvert"),
		kong.Description("Convert multi-sub optimiser filter reports to equaliser filter files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input reports specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	applyFlags(&cfg, cliArgs)

	job, err := newJob(cfg, cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if err := job.planOutputs(cliArgs.Files); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	// Open debug log file
	if cliArgs.Debug {
		debugLog, err := os.Create("msoconvert-debug.log")
		if err == nil {
			defer debugLog.Close()
			job.log = func(format string, args ...interface{}) {
				fmt.Fprintf(debugLog, format+"\n", args...)
			}
		}
	}

	ok := convertAll(job, cliArgs.Files, cliArgs.Plain)

	if cliArgs.Watch {
		if err := watchReports(job, cliArgs.Files, cliArgs.Plain); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	if !ok {
		os.Exit(1)
	}
}

// applyFlags lets command-line flags override the config file
func applyFlags(cfg *config.Config, args *CLI) {
	if args.QMode != "" {
		cfg.Convert.QMode = args.QMode
	}
	if len(args.Include) > 0 {
		cfg.Convert.Include = args.Include
	}
	switch args.Shared {
	case "combine":
		cfg.Convert.CombineShared = true
	case "separate":
		cfg.Convert.CombineShared = false
	}
	if args.Equaliser != "" {
		cfg.Convert.Equaliser = args.Equaliser
	}
	if args.DelayUnit != "" {
		cfg.Report.DelayUnit = args.DelayUnit
	}
	// nil when the flag is absent, so an explicit 0 still overrides the file
	if args.DelayOffset != nil {
		cfg.Report.DelayOffset = *args.DelayOffset
	}
}

// convertAll converts every report concurrently and reports progress through
// the TUI, or prints a plain summary. It returns false if any report failed.
func convertAll(job *job, files []string, plain bool) bool {
	var p *tea.Program
	if !plain {
		p = tea.NewProgram(ui.NewModel(files))
	}
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	results := make([]ui.FileProgress, len(files))
	done := make(chan struct{})
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())

	go func() {
		for i, inputPath := range files {
			eg.Go(func() error {
				job.log("[MAIN] Converting %d: %s", i, inputPath)
				send(ui.FileStartMsg{FileIndex: i, FileName: inputPath})

				start := time.Now()
				summary, err := job.convert(inputPath)
				if err != nil {
					job.log("[MAIN] Conversion of %s failed: %v", inputPath, err)
				}

				results[i] = ui.FileProgress{
					InputPath:   inputPath,
					Status:      ui.StatusComplete,
					ElapsedTime: time.Since(start),
					Summary:     summary,
					Error:       err,
				}
				if err != nil {
					results[i].Status = ui.StatusError
				}
				send(ui.FileCompleteMsg{FileIndex: i, Summary: summary, Error: err})
				return err
			})
		}
		err := eg.Wait()
		if err != nil {
			job.log("[MAIN] First failure: %v", err)
		}
		job.log("[MAIN] Sending AllCompleteMsg")
		close(done)
		send(ui.AllCompleteMsg{})
	}()

	if p != nil {
		if _, err := p.Run(); err != nil {
			cli.PrintError(fmt.Sprintf("UI error: %v", err))
			return false
		}
	}
	// The UI may quit early on a key press; the results are still needed
	<-done
	if p == nil {
		fmt.Print(ui.RenderSummary(results))
	}

	for _, r := range results {
		if r.Status != ui.StatusComplete {
			return false
		}
	}
	return true
}

// watchReports re-converts reports on change until interrupted
func watchReports(job *job, files []string, plain bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var p *tea.Program
	if !plain {
		p = tea.NewProgram(ui.NewWatchModel(files))
	}

	w, err := watch.New(files, func(path string) {
		summary, err := job.convert(path)
		job.log("[WATCH] Re-converted %s (err=%v)", path, err)
		ev := ui.WatchEventMsg{FileName: path, Summary: summary, Error: err, At: time.Now()}
		if p != nil {
			p.Send(ev)
			return
		}
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", path, err))
			return
		}
		cli.PrintOK(fmt.Sprintf("%s %s", path, time.Now().Format("15:04:05")))
		for _, w := range summary.Warnings {
			cli.PrintWarning(w)
		}
	})
	if err != nil {
		return err
	}
	w.OnError(func(err error) {
		job.log("[WATCH] Watcher error: %v", err)
	})

	if p == nil {
		cli.PrintInfo("Watching:", fmt.Sprintf("%d report(s), Ctrl+C to stop", len(files)))
		return w.Run(ctx)
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	stop()
	return <-errc
}
