package cmd

import (
	"os"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/open"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a directory episodl manages, selectable by flag.
type location struct {
	title  string
	flag   string
	short  string
	path   func() string
	hidden bool
}

var locations = []location{
	{title: "Config", flag: "config", short: "c", path: where.Config},
	{title: "Data", flag: "data", short: "D", path: where.Data},
	{title: "Browsers", flag: "browsers", short: "b", path: where.Browsers},
	{title: "Logs", flag: "logs", short: "l", path: where.Logs},
	{title: "Cache", flag: "cache", path: where.Cache, hidden: true},
	{title: "Temp", flag: "temp", path: where.Temp, hidden: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, l.title+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)

	whereCmd.Flags().BoolP("open", "o", false, "Open the selected path in the file manager")
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show the paths episodl reads and writes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		selected, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})
		if ok {
			path := selected.path()
			cmd.Println(path)
			if lo.Must(cmd.Flags().GetBool("open")) {
				handleErr(open.Start(path))
			}
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(l.title+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
