package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E6FD9")).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Italic(true)
)

// ungrouped is the section title for flags without a kong group tag
const ungrouped = "General"

// helpExamples are shown at the end of the help page
var helpExamples = []string{
	"msoconvert room.txt",
	"msoconvert --q-mode classic --shared combine -o filters/ room.txt",
	"msoconvert --include \"Parametric EQ\" --settings-report --delay-unit ft *.txt",
	"msoconvert --watch room.txt",
}

// helpEntry is one left/right row of the help page
type helpEntry struct {
	name string
	help string
	note string // enum choices or default, shown dimmed
}

// helpSection groups entries under a title, in declaration order
type helpSection struct {
	title   string
	entries []helpEntry
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		fmt.Fprint(ctx.Stdout, renderHelp(ctx.Model.Name, ctx.Model.Help, positionals(ctx.Model.Node), flagSections(ctx.Model.Node)))
		return nil
	}
}

func renderHelp(name, desc string, args []helpEntry, sections []helpSection) string {
	var sb strings.Builder

	sb.WriteString(helpTitleStyle.Render(name + " 🔊"))
	sb.WriteString("\n")
	if desc != "" {
		sb.WriteString(helpDescStyle.Render(desc))
		sb.WriteString("\n")
	}

	sb.WriteString(helpSectionStyle.Render("Usage:"))
	sb.WriteString(fmt.Sprintf("\n  %s [flags] <reports> ...\n", name))

	// One column width for the whole page keeps sections aligned
	width := 0
	for _, a := range args {
		width = max(width, len(a.name))
	}
	for _, s := range sections {
		for _, e := range s.entries {
			width = max(width, len(e.name))
		}
	}

	if len(args) > 0 {
		writeHelpSection(&sb, "Arguments:", args, width, helpArgStyle)
	}
	for _, s := range sections {
		writeHelpSection(&sb, s.title+":", s.entries, width, helpFlagStyle)
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render("Examples:"))
	sb.WriteString("\n")
	for _, ex := range helpExamples {
		sb.WriteString("  " + ex + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func writeHelpSection(sb *strings.Builder, title string, entries []helpEntry, width int, nameStyle lipgloss.Style) {
	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title))
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(nameStyle.Render(e.name))
		if e.help != "" {
			sb.WriteString(strings.Repeat(" ", width-len(e.name)+2))
			sb.WriteString(e.help)
		}
		if e.note != "" {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(" + e.note + ")"))
		}
		sb.WriteString("\n")
	}
}

func positionals(node *kong.Node) []helpEntry {
	var args []helpEntry
	for _, arg := range node.Positional {
		args = append(args, helpEntry{name: arg.Summary(), help: arg.Help})
	}
	return args
}

// flagSections lists flags by kong group, General first
func flagSections(node *kong.Node) []helpSection {
	sections := []helpSection{{
		title:   ungrouped,
		entries: []helpEntry{{name: "-h, --help", help: "Show context-sensitive help."}},
	}}
	index := map[string]int{ungrouped: 0}

	for _, f := range node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}
		title := ungrouped
		if f.Group != nil && f.Group.Title != "" {
			title = f.Group.Title
		}
		i, ok := index[title]
		if !ok {
			i = len(sections)
			index[title] = i
			sections = append(sections, helpSection{title: title})
		}
		sections[i].entries = append(sections[i].entries, flagEntry(f))
	}
	return sections
}

func flagEntry(f *kong.Flag) helpEntry {
	name := "--" + f.Name
	if f.Short != 0 {
		name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if !f.IsBool() {
		name += "=" + strings.ToUpper(f.FormatPlaceHolder())
	}

	var note string
	switch {
	case f.Enum != "":
		note = strings.ReplaceAll(f.Enum, ",", "|")
		if f.Default != "" {
			note += ", default: " + f.Default
		}
	case f.Default != "" && !f.IsBool():
		note = "default: " + f.Default
	}

	return helpEntry{name: name, help: f.Help, note: note}
}
