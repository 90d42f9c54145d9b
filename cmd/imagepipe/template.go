package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/imagepipe/infra"
)

func newTemplateCmd(a *app) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Render the CloudFormation template",
		Long: `Template renders every pipeline resource as one CloudFormation template.

Examples:
    imagepipe template
    imagepipe template --format yaml -o template.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := infra.Build()
			if err != nil {
				return err
			}

			var data []byte
			switch outputFormat {
			case "json":
				data, err = infra.ToJSON(tmpl)
			case "yaml":
				data, err = infra.ToYAML(tmpl)
			default:
				return fmt.Errorf("unknown format %q: use json or yaml", outputFormat)
			}
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			}
			a.logger.Info("wrote template", "file", outputFile, "resources", len(tmpl.Resources))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
