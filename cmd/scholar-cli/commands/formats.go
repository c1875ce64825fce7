package commands

import (
	"os"

	"scholarcite/lib/scholar"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Lists the supported reference export formats.",
	Run: func(cmd *cobra.Command, args []string) {
		formats := []struct {
			format scholar.ReferenceFormat
			flag   string
			usedBy string
		}{
			{scholar.FormatBibTeX, "bibtex", "LaTeX, JabRef"},
			{scholar.FormatEndNote, "endnote", "EndNote"},
			{scholar.FormatRefMan, "refman", "Reference Manager, Zotero"},
			{scholar.FormatRefWorks, "refworks", "RefWorks"},
		}

		t := newTable()
		t.AppendHeader(table.Row{"Format", "--format value", "Used by"})
		for _, f := range formats {
			t.AppendRow(table.Row{f.format.Label(), f.flag, f.usedBy})
		}
		t.Render()
	},
}
