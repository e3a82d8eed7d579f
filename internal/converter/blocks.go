package converter

import (
	"regexp"
	"strings"
)

// Report section markers
const (
	sharedOpenLabel  = "Shared sub channel:"
	sharedCloseLabel = "End shared sub channel"
)

// channelMarker matches both `Channel: "<name>"` and `End Channel: "<name>"`.
// The optional group is non-empty for closing markers.
var channelMarker = regexp.MustCompile(`(End\s+)?Channel:\s*"([^"\r\n]*)"`)

// filterHeaderStart finds lines that open a new filter chunk, e.g. "FL1:"
var filterHeaderStart = regexp.MustCompile(`(?m)^[ \t]*[A-Za-z]+\d+:`)

// filterHeader splits a chunk's first line into id and type label
var filterHeader = regexp.MustCompile(`^\s*([A-Za-z]+\d+):\s*(.+?)\s*$`)

// blockSet is the raw text of every channel block plus the shared block
type blockSet struct {
	channels  *ordered[string]
	shared    string
	hasShared bool
}

// extractBlocks isolates each channel block and the shared sub block.
//
// A channel block runs from its opening marker to the first closing marker
// carrying the same name. Markers inside an already captured block are not
// considered. A repeated channel name replaces the earlier block.
func extractBlocks(text string) (blockSet, error) {
	blocks := blockSet{channels: newOrdered[string]()}

	markers := channelMarker.FindAllStringSubmatchIndex(text, -1)
	cursor := 0
	for i, open := range markers {
		if open[0] < cursor || open[2] >= 0 {
			continue
		}
		name := text[open[4]:open[5]]
		for _, end := range markers[i+1:] {
			if end[2] < 0 || text[end[4]:end[5]] != name {
				continue
			}
			blocks.channels.set(name, strings.TrimSpace(text[open[1]:end[0]]))
			cursor = end[1]
			break
		}
	}

	if start := strings.Index(text, sharedOpenLabel); start >= 0 {
		body := text[start+len(sharedOpenLabel):]
		if end := strings.Index(body, sharedCloseLabel); end >= 0 {
			blocks.shared = strings.TrimSpace(body[:end])
			blocks.hasShared = true
		}
	}

	return blocks, nil
}

// splitFilterChunks cuts a block into one chunk per filter header line.
// Each chunk keeps its own header. Blank chunks are dropped.
func splitFilterChunks(block string) []string {
	starts := filterHeaderStart.FindAllStringIndex(block, -1)
	if len(starts) == 0 {
		if strings.TrimSpace(block) == "" {
			return nil
		}
		return []string{block}
	}

	var chunks []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			chunks = append(chunks, s)
		}
	}

	add(block[:starts[0][0]])
	for i, s := range starts {
		end := len(block)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		add(block[s[0]:end])
	}
	return chunks
}

// parseChunkHeader returns the filter id, type label and parameter text of a
// chunk, or ok=false when the first line is not "<id>: <type>".
func parseChunkHeader(chunk string) (id, label, params string, ok bool) {
	chunk = strings.TrimLeft(chunk, "\r\n")
	first, rest, _ := strings.Cut(chunk, "\n")
	m := filterHeader.FindStringSubmatch(first)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], rest, true
}
