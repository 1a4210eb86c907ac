package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mouse-blink/unrotate/internal/controller"
	"github.com/mouse-blink/unrotate/internal/domain"
	m "github.com/mouse-blink/unrotate/internal/model"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <script>",
		Short: "Show the recovered string table without rewriting",
		Long: heredoc.Doc(`
			Inspect locates the decoder and bootstrap of a script, replays the
			rotation and prints the converged string table with the aliases
			that would be rewritten. Nothing is written to disk.`),
		Example: heredoc.Doc(`
			$ unrotate inspect dist/app.js
			$ unrotate inspect --format json dist/app.js | jq '.table[0]'`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := viper.GetString("format")

			var ui controller.UI

			switch format {
			case controller.FormatTable:
				ui = controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
			case controller.FormatJSON, controller.FormatYAML:
				ui = controller.NewSimpleUI(cmd, controller.WithInspectFormat(format))
			default:
				return fmt.Errorf("unknown format %q: use table, json or yaml", format)
			}

			return newWorkflow(ui).Inspect(domain.InspectArgs{
				Path:    m.Path(args[0]),
				Decoder: viper.GetString("decoder"),
			})
		},
	}

	cmd.Flags().StringP("format", "f", controller.FormatTable, "output format: table, json or yaml")

	bindFlags(cmd)

	return cmd
}
