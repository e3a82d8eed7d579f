package converter

import (
	"fmt"
	"strings"
)

const errorLogPrefix = "Error during conversion: "

// pipeline holds the conversion stages so each can be exercised, or made to
// fail, independently. Every stage reports failure through its error.
type pipeline struct {
	blocks   func(text string) (blockSet, error)
	filters  func(block string, opts Options) ([]FilterEntry, error)
	settings func(text string) (settings, error)
	render   func(entries []FilterEntry, channel string, opts Options) string
}

var defaultPipeline = pipeline{
	blocks:   extractBlocks,
	filters:  extractFilters,
	settings: extractSettings,
	render:   renderFile,
}

// Convert translates a filter report into filter files.
//
// Convert never panics and never fails outright: a stage error ends the pass
// and is appended to Result.Log as "Error during conversion: <message>",
// leaving whatever was produced before it in the result. It holds no state
// between calls and is safe for concurrent use.
func Convert(report string, opts Options) *Result {
	return defaultPipeline.convert(report, opts)
}

func (p pipeline) convert(report string, opts Options) (res *Result) {
	res = &Result{}
	defer func() {
		if r := recover(); r != nil {
			res.logf("%s%v", errorLogPrefix, r)
		}
	}()

	if err := p.run(report, opts, res); err != nil {
		res.logf("%s%v", errorLogPrefix, err)
	}
	return res
}

// channelFilters is the extracted filter list of one channel block
type channelFilters struct {
	name    string
	entries []FilterEntry
}

func (p pipeline) run(report string, opts Options, res *Result) error {
	// Stage 1: channel and shared blocks
	blocks, err := p.blocks(report)
	if err != nil {
		return fmt.Errorf("extracting channel blocks: %w", err)
	}

	// Stage 2: filters per block
	channels := make([]channelFilters, 0, blocks.channels.len())
	for _, name := range blocks.channels.keys {
		block, _ := blocks.channels.get(name)
		entries, err := p.filters(block, opts)
		if err != nil {
			return fmt.Errorf("extracting filters for channel %s: %w", name, err)
		}
		channels = append(channels, channelFilters{name: name, entries: entries})
	}

	var shared []FilterEntry
	if blocks.hasShared {
		shared, err = p.filters(blocks.shared, opts)
		if err != nil {
			return fmt.Errorf("extracting shared sub filters: %w", err)
		}
	}

	// Stage 3: settings, from the full text
	s, err := p.settings(report)
	if err != nil {
		return fmt.Errorf("extracting settings: %w", err)
	}
	res.Gains = s.gains
	res.Delays = s.delays
	res.Inversions = s.inversions
	res.Log = append(res.Log, s.warnings...)

	// Stage 4: preamble
	combine := opts.CombineShared && len(shared) > 0
	res.logf("Q value mode: %s", opts.modeName())
	res.logf("Included filter types: %s", strings.Join(opts.IncludedTypes, ", "))
	if combine {
		res.logf("Combining %d shared sub filter(s) into each channel file", len(shared))
	}

	// Stage 5: channel files
	sharedMerged := false
	for _, ch := range channels {
		if len(ch.entries) == 0 {
			res.logf("Channel %s: no included filters", ch.name)
			continue
		}

		entries := ch.entries
		if combine {
			entries = make([]FilterEntry, 0, len(shared)+len(ch.entries))
			entries = append(entries, shared...)
			entries = append(entries, ch.entries...)
			sharedMerged = true
		}

		name := ChannelFileName(ch.name)
		res.Files.Set(name, p.render(entries, ch.name, opts))
		res.TotalProcessed += len(ch.entries)
		res.TotalExported += len(entries)
		res.logf("Channel %s: %d filter(s) written to %s", ch.name, len(entries), name)
	}
	if sharedMerged {
		res.TotalProcessed += len(shared)
	}

	// Stage 6: standalone shared file
	if len(shared) > 0 && !opts.CombineShared {
		res.SharedFile = p.render(shared, "", opts)
		res.TotalProcessed += len(shared)
		res.TotalExported += len(shared)
		res.logf("Shared sub: %d filter(s) written to %s", len(shared), SharedFileName)
	}

	// Stage 7: summary
	res.logf("Total filters processed: %d", res.TotalProcessed)
	res.logf("Total filters exported: %d", res.TotalExported)
	res.logf("Gain settings found: %d", len(res.Gains))
	res.logf("Delay settings found: %d", len(res.Delays))
	if res.Inversions.HasInversions() {
		res.logf("Inverted channels: %s", strings.Join(res.Inversions, ", "))
	} else {
		res.logf("No channel inversions")
	}

	return nil
}
