package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/imagepipe/store"
)

var errTableRequired = errors.New("imagepipe: --table or TABLE_NAME is required")

func newScanCmd(a *app) *cobra.Command {
	var (
		table    string
		limit    int
		startKey string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Page through a table",
		Long: `Scan reads items the way the list API does and prints them with the
continuation key to pass to the next call.

Examples:
    imagepipe scan --table Classifications --limit 20
    imagepipe scan --start-key '{"image":{"S":"cat.png"}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				table = os.Getenv("TABLE_NAME")
			}
			if table == "" {
				return errTableRequired
			}

			key, err := store.DecodeKey([]byte(startKey))
			if err != nil {
				return err
			}

			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			s := store.New(client, store.DefaultConfig())

			result, err := s.Scan(cmd.Context(), store.ScanInput{
				TableName: table,
				Limit:     limit,
				StartKey:  key,
			})
			if err != nil {
				return err
			}
			a.logger.Info("scanned table", "table", table, "count", len(result.Items))

			encodedKey, err := store.EncodeKey(result.LastEvaluatedKey)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Items            []store.Item    `json:"items"`
				LastEvaluatedKey json.RawMessage `json:"last_evaluated_key"`
			}{result.Items, encodedKey})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to scan (default: $TABLE_NAME)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items (0 = all)")
	cmd.Flags().StringVar(&startKey, "start-key", "", "Continuation key from a previous scan, as JSON")

	return cmd
}
