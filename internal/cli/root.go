// Package cli provides the Cobra command structure for texgen.
package cli

import (
	"github.com/spf13/cobra"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the texgen root command. Compilation is the
// root's own job; there is no "compile" subcommand to type.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &compileFlags{}

	rootCmd := &cobra.Command{
		Use:   "texgen [flags] INPUT",
		Short: "Compile lightweight-markup documents to LaTeX",
		Long: `texgen compiles documents written in a lightweight markup format into
LaTeX (or other formats). Input methods rewrite the source text on the
way in, so typographic characters can be typed on any keyboard; the
parser tracks every character back to its original file position for
precise error messages.`,
		Example: `  texgen thesis.tg                 # compile to thesis.tex
  texgen -b text notes.tg          # render as plain text
  texgen -o out/paper.tex paper.tg # explicit output path`,
		Version:       info.Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], flags)
		},
	}

	addCompileFlags(rootCmd, flags)
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

type compileFlags struct {
	output     string
	backendID  string
	configPath string
	methodDirs []string
	logfile    string
	nolog      bool
	quiet      bool
	strict     bool
	color      string
	debug      bool
}

func addCompileFlags(cmd *cobra.Command, flags *compileFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&flags.backendID, "backend", "b", "latex",
		"output backend: latex, text")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to settings file")
	cmd.Flags().StringSliceVar(&flags.methodDirs, "method-dir", nil,
		"extra directories with input-method files")
	cmd.Flags().StringVarP(&flags.logfile, "logfile", "l", "", "write a log to this file")
	cmd.Flags().BoolVar(&flags.nolog, "nolog", false, "disable logging entirely")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress diagnostics and summary")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("logfile", "nolog")
}
