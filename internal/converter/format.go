package converter

import (
	"strings"
)

// File naming for generated filter files
const (
	channelFileSuffix = "_filters.txt"
	SharedFileName    = "shared_sub_filters.txt"
)

// ChannelFileName returns the output file name for a channel
func ChannelFileName(channel string) string {
	return channel + channelFileSuffix
}

// renderFile writes a filter settings document for one channel. The channel
// line is omitted when channel is empty. Entries of unknown kind are skipped
// and do not take a filter number.
func renderFile(entries []FilterEntry, channel string, opts Options) string {
	var sb strings.Builder

	sb.WriteString("Filter Settings file\n")
	sb.WriteString("\n")
	sb.WriteString("Dated: " + opts.dateStamp() + "\n")
	sb.WriteString("\n")
	sb.WriteString("Equaliser: " + equaliserName(opts) + "\n")
	if channel != "" {
		sb.WriteString("Channel: " + channel + "\n")
	}
	sb.WriteString("\n")

	n := 0
	for _, e := range entries {
		ft, ok := typeForKind(e.Kind)
		if !ok {
			continue
		}
		n++
		sb.WriteString(ft.render(n, e))
		sb.WriteString("\n")
	}

	return sb.String()
}

func equaliserName(opts Options) string {
	if strings.TrimSpace(opts.Equaliser) == "" {
		return DefaultEqualiser
	}
	return opts.Equaliser
}
