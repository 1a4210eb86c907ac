// Package cmd provides the root command and CLI setup for unrotate.
package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/caarlos0/ctrlc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mouse-blink/unrotate/internal/adapter"
	"github.com/mouse-blink/unrotate/internal/controller"
	"github.com/mouse-blink/unrotate/internal/domain"
	m "github.com/mouse-blink/unrotate/internal/model"
)

var cfgFile string

// newWorkflow builds the workflow for a command once its UI is known.
var newWorkflow = func(ui controller.UI) domain.Workflow {
	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewCommandFormatter(),
		ui,
		log.Log,
	)
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func init() {
	log.SetHandler(clihandler.Default)

	cobra.OnInitialize(initConfig)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unrotate [paths...]",
		Short: "Recover string tables in obfuscated JavaScript",
		Long: heredoc.Doc(`
			Unrotate undoes string-array rotation obfuscation in JavaScript bundles.

			It finds the string table and the decoder function, replays the
			bootstrap rotation until its checksum matches, and replaces every
			decoder call with the string literal it returns. The result is
			written next to each input and passed through js-beautify when it
			is installed.

			Paths may be files or directories; a trailing /... scans a
			directory recursively.`),
		Example: heredoc.Doc(`
			# Write dist/app.readable.js
			$ unrotate dist/app.js

			# Every script under dist with four workers
			$ unrotate -p 4 dist/...

			# Print the result with a diff of the rewritten calls
			$ unrotate --stdout --diff dist/app.js

			# Keep the output up to date while a bundler rebuilds
			$ unrotate --watch dist/`),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if viper.GetBool("verbose") {
				log.SetLevel(log.DebugLevel)
			}

			if viper.GetBool("no-color") {
				color.NoColor = true
			}
		},
		RunE: runDeobfuscate,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/unrotate/config.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	cmd.PersistentFlags().Bool("no-color", false, "disable colorized output")
	cmd.PersistentFlags().String("decoder", "", "decoder function name (located automatically when empty)")

	cmd.Flags().StringP("output", "o", "", "output file (single input only)")
	cmd.Flags().String("suffix", m.DefaultOutputSuffix, "suffix that replaces the input extension")
	cmd.Flags().IntP("parallel", "p", 1, "number of parallel workers")
	cmd.Flags().StringArrayP("exclude", "x", nil, "exclude scripts matching regex (can be repeated)")
	cmd.Flags().Bool("diff", false, "show a unified diff of the rewritten calls")
	cmd.Flags().Bool("stdout", false, "print the readable script instead of writing it")
	cmd.Flags().BoolP("watch", "w", false, "rerun whenever an input changes")

	defaults := m.DefaultFormatOptions()
	cmd.Flags().Bool("no-format", false, "skip the reformatting pass")
	cmd.Flags().String("formatter", "", "reformatter command line reading stdin (default js-beautify with the options below)")
	cmd.Flags().Int("indent", defaults.IndentSize, "indent size for the reformatter")
	cmd.Flags().Int("wrap", defaults.WrapLineLength, "wrap lines longer than this (0 disables)")
	cmd.Flags().Int("max-newlines", defaults.MaxPreserveNewlines, "maximum consecutive blank lines kept")

	cmd.MarkFlagsMutuallyExclusive("watch", "stdout")

	bindFlags(cmd)

	cmd.AddCommand(newInspectCmd())
	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}

// bindFlags lets config files and UNROTATE_* variables supply any flag.
func bindFlags(cmd *cobra.Command) {
	cobra.CheckErr(viper.BindPFlags(cmd.PersistentFlags()))
	cobra.CheckErr(viper.BindPFlags(cmd.Flags()))
}

func runDeobfuscate(cmd *cobra.Command, args []string) error {
	deobArgs := domain.DeobfuscateArgs{
		Paths:   parsePaths(args),
		Output:  m.Path(viper.GetString("output")),
		Suffix:  viper.GetString("suffix"),
		Threads: viper.GetInt("parallel"),
		Exclude: viper.GetStringSlice("exclude"),
		Diff:    viper.GetBool("diff"),
		Stdout:  viper.GetBool("stdout"),
		Decoder: viper.GetString("decoder"),
		Format:  formatOptions(),
	}

	watch := viper.GetBool("watch")

	var ui controller.UI

	tty := controller.IsTTY(cmd.OutOrStdout())
	if watch || deobArgs.Stdout {
		ui = controller.NewSimpleUI(cmd, controller.WithHighlight(deobArgs.Stdout && tty && !color.NoColor))
	} else {
		ui = controller.NewUI(cmd, tty)
	}

	wf := newWorkflow(ui)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	err := ctrlc.Default.Run(ctx, func() error {
		if watch {
			return wf.Watch(ctx, deobArgs)
		}

		return wf.Deobfuscate(ctx, deobArgs)
	})
	if errors.As(err, &ctrlc.ErrorCtrlC{}) {
		log.Warn("Exiting...")

		return nil
	}

	return err
}

func formatOptions() m.FormatOptions {
	return m.FormatOptions{
		Enabled:             !viper.GetBool("no-format"),
		IndentSize:          viper.GetInt("indent"),
		MaxPreserveNewlines: viper.GetInt("max-newlines"),
		WrapLineLength:      viper.GetInt("wrap"),
		Command:             strings.Fields(viper.GetString("formatter")),
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "unrotate"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("unrotate")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
