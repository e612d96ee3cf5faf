package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/extension"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/util"
	"github.com/episodl/episodl/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extensionCmd)
	extensionCmd.AddCommand(extensionUpdateCmd)
	extensionCmd.AddCommand(extensionWhereCmd)
	extensionWhereCmd.SetOut(os.Stdout)
}

// extensionCmd groups the uBlock Origin maintenance commands.
var extensionCmd = &cobra.Command{
	Use:     "extension",
	Short:   "Manage the uBlock Origin extension loaded into the browser",
	Aliases: []string{"ext"},
}

var extensionUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Install or update uBlock Origin to the latest release",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		manager := newExtensionManager(where.Data())

		previous := manager.Current()
		erase := util.PrintErasable(fmt.Sprintf("%s Checking for uBlock Origin updates...", icon.Get(icon.Progress)))
		status, err := manager.Ensure(ctx)
		erase()
		handleErr(err)

		current := manager.Current().OrElse("unknown")
		switch status {
		case extension.UpToDate:
			fmt.Printf("%s uBlock Origin %s is up to date\n", icon.Get(icon.Success), style.Bold(current))
		case extension.Updated:
			fmt.Printf(
				"%s Updated uBlock Origin %s %s %s\n",
				icon.Get(icon.Success),
				style.Faint(previous.OrElse("unknown")),
				style.Fg(color.Yellow)("→"),
				style.Bold(current),
			)
		default:
			fmt.Printf("%s Installed uBlock Origin %s\n", icon.Get(icon.Success), style.Bold(current))
		}
	},
}

var extensionWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display the directory the browser loads uBlock Origin from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := newExtensionManager(where.Data()).Root()
		handleErr(err)
		cmd.Println(root)
	},
}
