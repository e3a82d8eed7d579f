package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/msoconvert/internal/config"
	"github.com/linuxmatters/msoconvert/internal/converter"
	"github.com/linuxmatters/msoconvert/internal/logging"
	"github.com/linuxmatters/msoconvert/internal/ui"
	"github.com/linuxmatters/msoconvert/internal/units"
)

// errConversionFailed wraps the error line a failed conversion logged
var errConversionFailed = errors.New("conversion failed")

// errOutputClash is returned when two reports would write to one directory
var errOutputClash = errors.New("reports share an output directory")

// job holds everything needed to convert one report, shared by all workers
type job struct {
	opts        converter.Options
	unit        units.DistanceUnit
	delayOffset float64

	outputDir      string
	multi          bool // several reports share outputDir
	logs           bool
	settingsReport bool

	log func(format string, args ...interface{})
}

func newJob(cfg config.Config, args *CLI) (*job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	unit, err := cfg.DistanceUnit()
	if err != nil {
		return nil, err
	}
	return &job{
		opts:           opts,
		unit:           unit,
		delayOffset:    cfg.Report.DelayOffset,
		outputDir:      args.Output,
		logs:           args.Logs,
		settingsReport: args.SettingsReport,
		log:            func(string, ...interface{}) {},
	}, nil
}

// outputDirFor returns where a report's files go: <report>-filters beside
// the report, the --output directory for a single report, or
// <output>/<report>-filters when several reports share --output
func (j *job) outputDirFor(inputPath string) string {
	base := filepath.Base(inputPath)
	dir := strings.TrimSuffix(base, filepath.Ext(base)) + "-filters"
	switch {
	case j.outputDir == "":
		return filepath.Join(filepath.Dir(inputPath), dir)
	case j.multi:
		return filepath.Join(j.outputDir, dir)
	default:
		return j.outputDir
	}
}

// planOutputs fixes the output layout for the given reports and refuses sets
// in which two reports would write into the same directory
func (j *job) planOutputs(files []string) error {
	j.multi = len(files) > 1

	seen := make(map[string]string, len(files))
	for _, f := range files {
		dir, err := filepath.Abs(j.outputDirFor(f))
		if err != nil {
			return fmt.Errorf("failed to resolve output for %s: %w", f, err)
		}
		if prev, ok := seen[dir]; ok {
			return fmt.Errorf("%w: %s and %s both write to %s", errOutputClash, prev, f, dir)
		}
		seen[dir] = f
	}
	return nil
}

// convert reads, converts and writes one report
func (j *job) convert(inputPath string) (ui.Summary, error) {
	start := time.Now()
	outDir := j.outputDirFor(inputPath)
	summary := ui.Summary{OutputDir: outDir}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return summary, fmt.Errorf("failed to read report: %w", err)
	}

	opts := j.opts
	opts.Dated = start
	res := converter.Convert(string(data), opts)
	for _, line := range res.Log {
		j.log("[CONVERT] %s: %s", filepath.Base(inputPath), line)
	}
	summary.Processed = res.TotalProcessed
	summary.Exported = res.TotalExported
	summary.Gains = len(res.Gains)
	summary.Delays = len(res.Delays)
	summary.Inversions = res.Inversions
	summary.Warnings = warnings(res.Log)

	if res.Failed() {
		msg := strings.TrimPrefix(res.Log[len(res.Log)-1], "Error during conversion: ")
		return summary, fmt.Errorf("%w: %s", errConversionFailed, msg)
	}

	written, err := converter.WriteFiles(outDir, res)
	summary.Files = written
	if err != nil {
		return summary, err
	}

	if j.settingsReport {
		path := filepath.Join(outDir, logging.SettingsReportFileName)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return summary, fmt.Errorf("failed to create output directory: %w", err)
		}
		err := logging.WriteSettingsReport(path, res, logging.SettingsReportOptions{
			Source:      filepath.Base(inputPath),
			Unit:        j.unit,
			DelayOffset: j.delayOffset,
		})
		if err != nil {
			return summary, err
		}
		summary.SettingsReport = path
	}

	if j.logs {
		path, err := logging.WriteConversionLog(logging.LogData{
			InputPath: inputPath,
			OutputDir: outDir,
			StartTime: start,
			EndTime:   time.Now(),
			Options:   opts,
			Result:    res,
			Written:   written,
		})
		if err != nil {
			return summary, err
		}
		summary.ConversionLog = path
	}

	return summary, nil
}

// warnings picks the warning lines out of a conversion log
func warnings(log []string) []string {
	var out []string
	for _, line := range log {
		if strings.HasPrefix(line, "Warning:") {
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "Warning:")))
		}
	}
	return out
}
