package converter

import (
	"strings"
	"testing"
)

func TestExtractBlocks(t *testing.T) {
	blocks, err := extractBlocks(sampleReport)
	if err != nil {
		t.Fatalf("extractBlocks failed: %v", err)
	}

	if got := strings.Join(blocks.channels.keys, ","); got != "FL,FR" {
		t.Errorf("channel order = %q, want %q", got, "FL,FR")
	}

	fl, _ := blocks.channels.get("FL")
	if !strings.HasPrefix(fl, "FL1: Parametric EQ (RBJ)") {
		t.Errorf("FL block not trimmed to first filter, got %q", fl)
	}
	if strings.Contains(fl, "FR1") {
		t.Error("FL block over-captured into FR")
	}

	if !blocks.hasShared {
		t.Fatal("shared block not found")
	}
	if !strings.HasPrefix(blocks.shared, "S1:") || strings.Contains(blocks.shared, "End shared") {
		t.Errorf("unexpected shared block %q", blocks.shared)
	}
}

func TestExtractBlocksDuplicateChannel(t *testing.T) {
	text := `Channel: "FL"
FL1: Parametric EQ
End Channel: "FL"
Channel: "FR"
FR1: Parametric EQ
End Channel: "FR"
Channel: "FL"
FL9: All-Pass
End Channel: "FL"`

	blocks, _ := extractBlocks(text)

	if got := strings.Join(blocks.channels.keys, ","); got != "FL,FR" {
		t.Errorf("channel order = %q, want %q", got, "FL,FR")
	}
	fl, _ := blocks.channels.get("FL")
	if fl != "FL9: All-Pass" {
		t.Errorf("FL block = %q, want last occurrence", fl)
	}
}

func TestExtractBlocksNameMustMatch(t *testing.T) {
	text := `Channel: "FL"
FL1: Parametric EQ
End Channel: "FR"
FL2: All-Pass
End Channel: "FL"
End Channel: "FL"`

	blocks, _ := extractBlocks(text)
	fl, ok := blocks.channels.get("FL")
	if !ok {
		t.Fatal("FL block not found")
	}
	if !strings.Contains(fl, "FL2") {
		t.Errorf("FL block should run past mismatched close marker, got %q", fl)
	}
	if strings.Count(fl, "End Channel") != 1 {
		t.Errorf("FL block should stop at first matching close, got %q", fl)
	}
}

func TestExtractBlocksMissingMarkers(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantBlocks int
		wantShared bool
	}{
		{"empty", "", 0, false},
		{"unclosed_channel", "Channel: \"FL\"\nFL1: Parametric EQ\n", 0, false},
		{"unclosed_shared", "Shared sub channel:\nS1: Parametric EQ\n", 0, false},
		{"shared_close_before_open", "End shared sub channel\nShared sub channel:\nS1: x\n", 0, false},
		{"shared_only", "Shared sub channel:\nS1: x\nEnd shared sub channel", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := extractBlocks(tt.text)
			if err != nil {
				t.Fatalf("extractBlocks failed: %v", err)
			}
			if blocks.channels.len() != tt.wantBlocks {
				t.Errorf("channel blocks = %d, want %d", blocks.channels.len(), tt.wantBlocks)
			}
			if blocks.hasShared != tt.wantShared {
				t.Errorf("hasShared = %v, want %v", blocks.hasShared, tt.wantShared)
			}
		})
	}
}

func TestSplitFilterChunks(t *testing.T) {
	block := `notes before the first filter

FL1: Parametric EQ (RBJ)
Parameter "Q" = 1

   FL2: All-Pass
Parameter "Q" = 0.5
`
	chunks := splitFilterChunks(block)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "FL1:") {
		t.Errorf("chunk 1 should keep its header, got %q", chunks[1])
	}
	if !strings.HasPrefix(strings.TrimSpace(chunks[2]), "FL2:") {
		t.Errorf("chunk 2 should keep its header, got %q", chunks[2])
	}

	if _, _, _, ok := parseChunkHeader(chunks[0]); ok {
		t.Error("leading notes should not parse as a filter header")
	}
}

func TestSplitFilterChunksBlank(t *testing.T) {
	if chunks := splitFilterChunks("  \n\t\n"); len(chunks) != 0 {
		t.Errorf("blank block gave %d chunks, want 0", len(chunks))
	}
}

func TestParseChunkHeader(t *testing.T) {
	tests := []struct {
		chunk     string
		wantID    string
		wantLabel string
		wantOK    bool
	}{
		{"FL1: Parametric EQ (RBJ)\nParameter \"Q\" = 1", "FL1", "Parametric EQ (RBJ)", true},
		{"SW12:   All-Pass, Second-Order  \n", "SW12", "All-Pass, Second-Order", true},
		{"FL1:\nParameter \"Q\" = 1", "", "", false},
		{"Parameter \"Q\" = 1", "", "", false},
		{"1FL: Parametric EQ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			id, label, _, ok := parseChunkHeader(tt.chunk)
			if ok != tt.wantOK || id != tt.wantID || label != tt.wantLabel {
				t.Errorf("parseChunkHeader(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.chunk, id, label, ok, tt.wantID, tt.wantLabel, tt.wantOK)
			}
		})
	}
}
