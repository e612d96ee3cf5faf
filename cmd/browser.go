package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/episodl/episodl/browser"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(browserCmd)
	browserCmd.Flags().Bool("headless", true, "Run the browser without a window")
	lo.Must0(viper.BindPFlag(key.BrowserHeadless, browserCmd.Flags().Lookup("headless")))
}

// browserCmd brings up a patched session, which is handy for checking a setup
// or inspecting a site by hand.
var browserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Launch the automation browser and report its user agent",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		config := browser.ConfigFromViper()

		erase := util.PrintErasable(fmt.Sprintf("%s Starting Chrome %d...", icon.Get(icon.Browser), config.MajorVersion))
		session, err := newProvisioner(config).Provision(ctx)
		erase()
		handleErr(err)
		defer func() {
			if err := session.Close(); err != nil {
				log.Warnf("failed to close browser session: %s", err)
			}
		}()

		fmt.Printf("%s Browser ready\n", icon.Get(icon.Success))
		fmt.Printf("%s %s\n", style.Faint("User Agent"), style.Bold(session.UserAgent().OrElse("unknown")))

		if config.Headless {
			return
		}

		fmt.Println(style.Faint("Press Ctrl+C to close the browser"))
		<-ctx.Done()
	},
}
