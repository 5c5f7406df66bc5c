package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/evaczone-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Renders the merged configuration (defaults, config file, environment) as YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := renderConfig(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

// renderConfig marshals the configuration to YAML with secrets redacted.
func renderConfig(c *config.Config) ([]byte, error) {
	redacted := *c
	if redacted.Geocode.GoogleKey != "" {
		redacted.Geocode.GoogleKey = "[redacted]"
	}

	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return nil, eris.Wrap(err, "marshal config")
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
