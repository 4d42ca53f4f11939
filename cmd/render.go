package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vellum-ui/vellum/internal/runtime"
)

var (
	renderInputs  []string
	renderJSON    string
	renderOutFile string
)

var renderCmd = &cobra.Command{
	Use:   "render <type>",
	Short: "Render a registered component type to HTML",
	Long: `Render creates one instance of a registered component type, renders
it to HTML and prints the result. Input values are passed as key=value
pairs or as a JSON object.

Examples:
  vellum render greeting --input name=Ada
  vellum render todo-list --input-json '{"title":"Groceries"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		input, err := renderInput()
		if err != nil {
			return err
		}

		rt := buildRuntime(cfg, logger)
		typeName := args[0]

		res, err := rt.Render(typeName, input)
		if err != nil {
			return fmt.Errorf("render %s: %w", typeName, err)
		}
		defer res.Component().Destroy()

		html := res.HTML()
		if renderOutFile != "" {
			if err := os.WriteFile(renderOutFile, []byte(html), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", renderOutFile, runtime.DisplayName(typeName))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), html)
		return nil
	},
}

// renderInput merges --input-json and --input pairs, pairs winning.
func renderInput() (map[string]interface{}, error) {
	input := make(map[string]interface{})

	if renderJSON != "" {
		if err := json.Unmarshal([]byte(renderJSON), &input); err != nil {
			return nil, fmt.Errorf("parse --input-json: %w", err)
		}
	}
	for _, pair := range renderInputs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", pair)
		}
		input[key] = value
	}
	return input, nil
}

func init() {
	renderCmd.Flags().StringArrayVarP(&renderInputs, "input", "i", nil, "input value as key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderJSON, "input-json", "", "input values as a JSON object")
	renderCmd.Flags().StringVarP(&renderOutFile, "output", "o", "", "write HTML to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
