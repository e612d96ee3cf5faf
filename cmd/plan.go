package cmd

import (
	"encoding/json"
	"os"
	"text/template"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/job"
	"github.com/episodl/episodl/style"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var planSelection *selection

func init() {
	rootCmd.AddCommand(planCmd)
	planSelection = bindSelection(planCmd)
	planCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	planCmd.SetOut(os.Stdout)

	planCmd.AddCommand(planSchemaCmd)
	planSchemaCmd.SetOut(os.Stdout)
}

var planTemplate = lo.Must(template.New("plan").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"purple": style.Fg(color.Purple),
	"yellow": style.Fg(color.Yellow),
}).Parse(`{{ purple "▇▇▇" }} {{ bold .URL }}
  {{ faint "Target" }}        {{ yellow .Target }}
  {{ faint "Request" }}       {{ yellow .Request.String }}
  {{ faint "Extractor" }}     {{ yellow .Extractor }}
  {{ faint "Concurrency" }}   {{ .Settings.Concurrency }}
  {{ faint "Retries" }}       {{ .Settings.Retries }}
  {{ faint "Wait every" }}    {{ .Settings.DDoSWaitEpisodes }}
  {{ faint "Wait" }}          {{ .Settings.DDoSWaitMs }}ms
  {{ faint "Play in mpv" }}   {{ .Settings.Player }}
`))

// planCmd resolves the job flags and prints the result without running it.
var planCmd = &cobra.Command{
	Use:   "plan [flags] URL",
	Short: "Display what would be downloaded without fetching anything",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		j, err := planSelection.job(cmd, args[0])
		handleErr(err)

		plan := j.Plan()
		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(plan))
			return
		}

		handleErr(planTemplate.Execute(cmd.OutOrStdout(), plan))
	},
}

// planSchemaCmd prints the JSON schema of "plan --json" output.
var planSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Display the JSON schema of the plan output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := jsonschema.Reflector{ExpandedStruct: true}
		schema := reflector.Reflect(&job.Plan{})

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
