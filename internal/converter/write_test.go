package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	res := Convert(sampleReport, newTestOptions())

	written, err := WriteFiles(dir, res)
	if err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}

	wantNames := []string{"FL_filters.txt", "FR_filters.txt", SharedFileName}
	if len(written) != len(wantNames) {
		t.Fatalf("wrote %d files, want %d: %v", len(written), len(wantNames), written)
	}
	for i, name := range wantNames {
		if filepath.Base(written[i]) != name {
			t.Errorf("written[%d] = %s, want %s", i, written[i], name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "FL_filters.txt"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if want := mustFile(t, res, "FL_filters.txt"); string(data) != want {
		t.Errorf("file content differs from result")
	}
}

func TestWriteFilesNothingToWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")

	written, err := WriteFiles(dir, &Result{})
	if err != nil || len(written) != 0 {
		t.Errorf("WriteFiles = %v, %v; want nothing", written, err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("output directory should not be created for an empty result")
	}
}

func TestWriteFilesUnsafeName(t *testing.T) {
	tests := []string{"../escape_filters.txt", "sub/dir_filters.txt", `back\slash_filters.txt`, ".hidden_filters.txt"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			res := &Result{}
			res.Files.Set(name, "content")
			_, err := WriteFiles(t.TempDir(), res)
			if !errors.Is(err, ErrUnsafeFileName) {
				t.Errorf("WriteFiles(%q) error = %v, want ErrUnsafeFileName", name, err)
			}
		})
	}
}

func TestParseQMode(t *testing.T) {
	tests := []struct {
		in      string
		want    QMode
		wantErr bool
	}{
		{"", QModeRBJ, false},
		{"rbj", QModeRBJ, false},
		{" RBJ ", QModeRBJ, false},
		{"Classic", QModeClassic, false},
		{"butterworth", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownQMode) {
				t.Errorf("ParseQMode(%q) error = %v, want ErrUnknownQMode", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseQMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
