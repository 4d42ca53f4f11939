package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vellum-ui/vellum/internal/runtime"
)

var listFormat string

type listOutput struct {
	Runtime    string      `json:"runtime" yaml:"runtime"`
	Components []typeEntry `json:"components" yaml:"components"`
	Modules    []string    `json:"modules" yaml:"modules"`
}

type typeEntry struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered component types and module definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		rt := buildRuntime(cfg, logger)

		names := rt.Components().TypeNames()
		sort.Strings(names)

		out := listOutput{
			Runtime: rt.ID(),
			Modules: rt.Modules().DefinedPaths(),
		}
		for _, name := range names {
			out.Components = append(out.Components, typeEntry{
				Name:  name,
				Title: runtime.DisplayName(name),
			})
		}

		var encoded []byte
		switch listFormat {
		case "yaml":
			encoded, err = yaml.Marshal(out)
		case "json":
			encoded, err = json.MarshalIndent(out, "", "  ")
			encoded = append(encoded, '\n')
		default:
			return fmt.Errorf("unknown format %q, expected yaml or json", listFormat)
		}
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "yaml", "output format (yaml, json)")
	rootCmd.AddCommand(listCmd)
}
