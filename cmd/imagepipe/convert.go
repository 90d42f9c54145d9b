package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/imagepipe/markup"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a JSON document to XML",
		Long: `Convert reads JSON from file, or stdin when no file is given, and prints
the XML document the integration function would send.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			doc, err := markup.FromJSON(data)
			if err != nil {
				return err
			}
			a.logger.Debug("converted document", "bytes", len(doc))

			out := cmd.OutOrStdout()
			if _, err := out.Write(doc); err != nil {
				return err
			}
			_, err = io.WriteString(out, "\n")
			return err
		},
	}
}
