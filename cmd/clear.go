package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/util"
	"github.com/episodl/episodl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// clearable is a directory that can be wiped and rebuilt on demand.
type clearable struct {
	name  string
	flag  string
	short string
	path  func() string

	// costly targets ask before removing unless --yes is given.
	costly bool
}

var clearables = []clearable{
	{name: "cache directory", flag: "cache", short: "c", path: where.Cache},
	{name: "browser builds", flag: "browsers", short: "b", path: where.Browsers, costly: true},
	{name: "data directory", flag: "data", path: where.Data, costly: true},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, c := range clearables {
		clearCmd.Flags().BoolP(c.flag, c.short, false, "clear "+c.name)
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirmClear asks whether c should really be removed.
func confirmClear(c clearable) (bool, error) {
	var confirmed bool
	err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Clear %s at %s?", c.name, c.path()),
	}, &confirmed)
	return confirmed, err
}

func clearOne(c clearable) (removed int, err error) {
	dir := c.path()
	erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), c.name))
	defer erase()

	entries, _ := filesystem.API().ReadDir(dir)
	if err := filesystem.RemoveDirIfExists(dir); err != nil {
		return 0, err
	}
	return len(entries), nil
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached files, downloaded browsers or stored data",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearables, func(c clearable, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(c.flag))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		skipConfirm := lo.Must(cmd.Flags().GetBool("yes"))
		for _, c := range selected {
			if c.costly && !skipConfirm {
				confirmed, err := confirmClear(c)
				handleErr(err)
				if !confirmed {
					continue
				}
			}

			removed, err := clearOne(c)
			handleErr(err)
			fmt.Printf("%s %s cleared (%s)\n",
				icon.Get(icon.Success),
				util.Capitalize(c.name),
				util.Quantify(removed, "entry", "entries"),
			)
		}
	},
}
