package version

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/util"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Notify prints a notice when a newer release is published. It stays quiet
// when the check is disabled, output is not a terminal or the feed is unreachable.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf(`
%s %s %s is available %s
%s
`,
		style.Fg(color.Green)("▇▇▇"),
		constant.Episodl,
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(you're on %s)", constant.Version)),
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+latest),
	)
}
