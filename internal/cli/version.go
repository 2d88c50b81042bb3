package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kbukum/start/version"
)

type VersionCmd struct{}

func NewVersionCmd() *VersionCmd {
	return &VersionCmd{}
}

func (c *VersionCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the start version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version.Get())
			}
			cmd.Println("start", version.Full())
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print build information as JSON")
	return cmd
}
