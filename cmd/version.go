package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// buildInfo describes the running binary.
type buildInfo struct {
	App      string `json:"app"`
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"builtAt"`
	BuiltBy  string `json:"builtBy"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Go       string `json:"go"`
	Chrome   int    `json:"chrome"`
}

func currentBuild() buildInfo {
	return buildInfo{
		App:      constant.Episodl,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Go:       runtime.Version(),
		Chrome:   constant.ChromeMajorVersion,
	}
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    func(v any) string { return style.Bold(fmt.Sprint(v)) },
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}       {{ bold .Version }}
  {{ faint "Git Commit" }}    {{ bold .Revision }}
  {{ faint "Build Date" }}    {{ bold .BuiltAt }}
  {{ faint "Built By" }}      {{ bold .BuiltBy }}
  {{ faint "Platform" }}      {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Go" }}            {{ bold .Go }}
  {{ faint "Chrome" }}        {{ bold .Chrome }}
`))

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			cmd.Println(constant.Version)
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(currentBuild()))
		default:
			handleErr(versionTemplate.Execute(cmd.OutOrStdout(), currentBuild()))
			version.Notify()
		}
	},
}
