package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellum-ui/vellum/internal/modpath"
)

var resolveFrom string

var resolveCmd = &cobra.Command{
	Use:   "resolve <target>",
	Short: "Explain how a module specifier resolves",
	Long: `Resolve walks a module specifier through the runtime's resolution
pipeline: relative joins against the requiring module, search paths and
builtin aliases for bare specifiers, main-file and remap indirection.

Examples:
  vellum resolve samples
  vellum resolve ./counter --from /samples$0.1.0/index`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		rt := buildRuntime(cfg, logger)
		target := args[0]
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "target:  %s\n", target)
		fmt.Fprintf(out, "from:    %s\n", resolveFrom)
		switch {
		case modpath.IsRelative(target):
			fmt.Fprintf(out, "joined:  %s\n", modpath.Join(modpath.Dir(resolveFrom), target))
		case modpath.IsAbsolute(target):
			fmt.Fprintf(out, "normalized: %s\n", modpath.Normalize(target))
		}

		resolved, _, err := rt.Modules().Resolve(target, resolveFrom)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", target, err)
		}

		pkgID, subpath := modpath.SplitPackage(resolved)
		fmt.Fprintf(out, "resolved: %s\n", resolved)
		if pkgID != "" {
			fmt.Fprintf(out, "package:  %s\n", pkgID)
			if subpath != "" {
				fmt.Fprintf(out, "subpath:  %s\n", subpath)
			}
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFrom, "from", "/", "module path the specifier is required from")
	rootCmd.AddCommand(resolveCmd)
}
