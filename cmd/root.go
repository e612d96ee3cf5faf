// Package cmd implements the command-line interface for episodl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/util"
	"github.com/episodl/episodl/version"
	"github.com/episodl/episodl/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootSelection *selection

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootSelection = bindSelection(rootCmd)

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = filesystem.RemoveDirIfExists(where.Temp())
	}()
}

// rootCmd downloads or plays the episodes behind a URL.
var rootCmd = &cobra.Command{
	Use:   constant.Episodl + " [flags] URL",
	Short: "Download or stream episodes from streaming sites",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download or stream episodes from streaming sites"),
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("debug")) {
			log.EnableDebug()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		j, err := rootSelection.job(cmd, args[0])
		handleErr(err)

		if j.Settings.Player {
			CheckDependencies("mpv")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		err = newRunner().Run(ctx, j)
		if errors.Is(err, context.Canceled) {
			err = errors.New("interrupted")
		}
		handleErr(err)
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), fitTerminal(strings.Trim(err.Error(), " \n")))
		os.Exit(1)
	}
}

// fitTerminal wraps msg to the terminal width, leaving room for the icon.
func fitTerminal(msg string) string {
	width, _, err := util.TerminalSize()
	if err != nil || width < 20 {
		return msg
	}
	return wrap.String(msg, width-4)
}
