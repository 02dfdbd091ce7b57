package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewUploadCommand creates the upload command
func NewUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to Planning Center",
		Long: `Upload a file to the Planning Center file service.

The returned file identifier can be attached to resources that accept
file references.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "" {
				return ErrFilePathRequired
			}

			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			reply, err := client.Upload(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", path, err)
			}

			return outputJSON(reply)
		},
	}
}
