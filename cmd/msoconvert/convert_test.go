package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linuxmatters/msoconvert/internal/config"
	"github.com/linuxmatters/msoconvert/internal/converter"
	"github.com/linuxmatters/msoconvert/internal/logging"
)

const testReport = `Channel: "FL"

FL1: Parametric EQ (RBJ)
Parameter "Center freq (Hz)" = 45.5
Parameter "Boost (dB)" = -3.2
Parameter "Q" = 4.1

End Channel: "FL"

Shared sub channel:

S1: Parametric EQ (RBJ)
Parameter "Center freq (Hz)" = 30
Parameter "Boost (dB)" = 2
Parameter "Q" = 1.5

End shared sub channel

Final gain and delay/distance settings:

Gain settings:
FL gain: -1.5 dB

Delay settings:
FL delay: 2.25 msec

Channel inversions:
No inversions
`

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "room.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

func testJob(t *testing.T, args *CLI) *job {
	t.Helper()
	cfg := config.Default()
	cfg.Report.DelayUnit = "ms"
	applyFlags(&cfg, args)
	j, err := newJob(cfg, args)
	if err != nil {
		t.Fatalf("newJob() error = %v", err)
	}
	return j
}

func TestApplyFlags(t *testing.T) {
	offset := 1.5
	cfg := config.Default()
	applyFlags(&cfg, &CLI{
		QMode:       "classic",
		Include:     []string{"All pass"},
		Shared:      "combine",
		Equaliser:   "miniDSP",
		DelayUnit:   "ft",
		DelayOffset: &offset,
	})

	if cfg.Convert.QMode != "classic" {
		t.Errorf("QMode = %q, want classic", cfg.Convert.QMode)
	}
	if len(cfg.Convert.Include) != 1 || cfg.Convert.Include[0] != "All pass" {
		t.Errorf("Include = %v", cfg.Convert.Include)
	}
	if !cfg.Convert.CombineShared {
		t.Error("CombineShared = false, want true")
	}
	if cfg.Convert.Equaliser != "miniDSP" {
		t.Errorf("Equaliser = %q", cfg.Convert.Equaliser)
	}
	if cfg.Report.DelayUnit != "ft" || cfg.Report.DelayOffset != 1.5 {
		t.Errorf("Report = %+v", cfg.Report)
	}

	applyFlags(&cfg, &CLI{Shared: "separate"})
	if cfg.Convert.CombineShared {
		t.Error("separate should clear CombineShared")
	}
	applyFlags(&cfg, &CLI{Shared: "auto"})
	if cfg.Convert.CombineShared || cfg.Convert.QMode != "classic" {
		t.Error("auto and empty flags should leave config untouched")
	}
}

func TestApplyFlagsZeroDelayOffset(t *testing.T) {
	cfg := config.Default()
	cfg.Report.DelayOffset = 2.5

	applyFlags(&cfg, &CLI{})
	if cfg.Report.DelayOffset != 2.5 {
		t.Errorf("DelayOffset without flag = %v, want config value 2.5", cfg.Report.DelayOffset)
	}

	zero := 0.0
	applyFlags(&cfg, &CLI{DelayOffset: &zero})
	if cfg.Report.DelayOffset != 0 {
		t.Errorf("DelayOffset with --delay-offset 0 = %v, want 0", cfg.Report.DelayOffset)
	}
}

func TestNewJobRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Convert.QMode = "bogus"
	if _, err := newJob(cfg, &CLI{}); err == nil {
		t.Error("expected error for unknown Q mode")
	}
}

func TestOutputDirFor(t *testing.T) {
	tests := []struct {
		name   string
		output string
		multi  bool
		input  string
		want   string
	}{
		{"beside_report", "", false, filepath.Join("reports", "room.txt"), filepath.Join("reports", "room-filters")},
		{"beside_report_multi", "", true, filepath.Join("reports", "room.txt"), filepath.Join("reports", "room-filters")},
		{"single_output", "out", false, "room.txt", "out"},
		{"shared_output", "out", true, filepath.Join("reports", "room.txt"), filepath.Join("out", "room-filters")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &job{outputDir: tt.output, multi: tt.multi}
			if got := j.outputDirFor(tt.input); got != tt.want {
				t.Errorf("outputDirFor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlanOutputs(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		files   []string
		wantErr bool
	}{
		{"single_report_output", "out", []string{"a/room.txt"}, false},
		{"distinct_reports_output", "out", []string{"a/lounge.txt", "b/cinema.txt"}, false},
		{"same_base_output", "out", []string{"a/room.txt", "b/room.txt"}, true},
		{"same_base_beside_report", "", []string{"a/room.txt", "b/room.txt"}, false},
		{"same_report_twice", "", []string{"a/room.txt", "a/room.txt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &job{outputDir: tt.output}
			err := j.planOutputs(tt.files)
			if tt.wantErr {
				if !errors.Is(err, errOutputClash) {
					t.Errorf("planOutputs(%v) error = %v, want errOutputClash", tt.files, err)
				}
				return
			}
			if err != nil {
				t.Errorf("planOutputs(%v) error = %v", tt.files, err)
			}
		})
	}
}

func TestJobConvertSharedOutput(t *testing.T) {
	dir := t.TempDir()
	lounge := filepath.Join(dir, "lounge.txt")
	cinema := filepath.Join(dir, "cinema.txt")
	if err := os.WriteFile(lounge, []byte(testReport), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cinema, []byte(strings.Replace(testReport, "45.5", "99.9", 1)), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "filters")
	files := []string{lounge, cinema}
	j := testJob(t, &CLI{Output: out, SettingsReport: true})
	if err := j.planOutputs(files); err != nil {
		t.Fatalf("planOutputs() error = %v", err)
	}

	want := map[string]string{lounge: "Fc 45.5000 Hz", cinema: "Fc 99.9000 Hz"}
	seen := make(map[string]bool)
	for _, input := range files {
		summary, err := j.convert(input)
		if err != nil {
			t.Fatalf("convert(%s) error = %v", input, err)
		}
		if filepath.Dir(summary.OutputDir) != out {
			t.Errorf("OutputDir = %q, want a directory inside %q", summary.OutputDir, out)
		}
		for _, p := range append(summary.Files, summary.SettingsReport) {
			if seen[p] {
				t.Errorf("%s written by more than one report", p)
			}
			seen[p] = true
		}
	}

	for input, line := range want {
		path := filepath.Join(j.outputDirFor(input), converter.ChannelFileName("FL"))
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), line) {
			t.Errorf("%s missing %q:\n%s", path, line, content)
		}
	}
}

func TestJobConvert(t *testing.T) {
	input := writeReport(t, testReport)
	j := testJob(t, &CLI{Logs: true, SettingsReport: true})

	summary, err := j.convert(input)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}

	wantDir := filepath.Join(filepath.Dir(input), "room-filters")
	if summary.OutputDir != wantDir {
		t.Errorf("OutputDir = %q, want %q", summary.OutputDir, wantDir)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("Files = %v, want FL and shared", summary.Files)
	}
	if filepath.Base(summary.Files[0]) != converter.ChannelFileName("FL") {
		t.Errorf("first file = %q", summary.Files[0])
	}
	if filepath.Base(summary.Files[1]) != converter.SharedFileName {
		t.Errorf("last file = %q", summary.Files[1])
	}
	if summary.Processed != 2 || summary.Exported != 2 {
		t.Errorf("Processed/Exported = %d/%d, want 2/2", summary.Processed, summary.Exported)
	}
	if summary.Gains != 1 || summary.Delays != 1 {
		t.Errorf("Gains/Delays = %d/%d, want 1/1", summary.Gains, summary.Delays)
	}

	if filepath.Base(summary.SettingsReport) != logging.SettingsReportFileName {
		t.Errorf("SettingsReport = %q", summary.SettingsReport)
	}
	for _, p := range []string{summary.SettingsReport, summary.ConversionLog} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}

	content, err := os.ReadFile(summary.Files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "Fc 45.5000 Hz") {
		t.Errorf("FL file missing filter line:\n%s", content)
	}
}

func TestJobConvertCombined(t *testing.T) {
	input := writeReport(t, testReport)
	out := filepath.Join(t.TempDir(), "filters")
	j := testJob(t, &CLI{Output: out, Shared: "combine"})

	summary, err := j.convert(input)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	if len(summary.Files) != 1 {
		t.Fatalf("Files = %v, want only FL", summary.Files)
	}
	if summary.ConversionLog != "" || summary.SettingsReport != "" {
		t.Error("no log or settings report should be written by default")
	}
}

func TestJobConvertNoChannels(t *testing.T) {
	input := writeReport(t, "nothing useful here\n")
	j := testJob(t, &CLI{})

	summary, err := j.convert(input)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	if len(summary.Files) != 0 {
		t.Errorf("no files should be written, got %v", summary.Files)
	}
	if len(summary.Warnings) != 2 {
		t.Errorf("Warnings = %v, want both missing-section warnings", summary.Warnings)
	}
	if _, err := os.Stat(summary.OutputDir); !os.IsNotExist(err) {
		t.Error("output directory should not be created when nothing is written")
	}
}

func TestJobConvertMissingFile(t *testing.T) {
	j := testJob(t, &CLI{})
	if _, err := j.convert(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestWarnings(t *testing.T) {
	got := warnings([]string{
		"Q value mode: RBJ",
		"Warning: channel inversions section not found",
	})
	if len(got) != 1 || got[0] != "channel inversions section not found" {
		t.Errorf("warnings() = %v", got)
	}
}
