package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/taskfile"
)

type ShowCmd struct{}

func NewShowCmd() *ShowCmd {
	return &ShowCmd{}
}

func (c *ShowCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pipeline>...",
		Short: "Print pipeline definitions as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			out := make(taskfile.Definitions, len(args))
			for _, name := range args {
				def, ok := s.Pipelines[name]
				if !ok {
					return errors.UnknownPipeline(name)
				}
				out[name] = def
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]taskfile.Definitions{"pipelines": out}); err != nil {
				return fmt.Errorf("failed to encode pipelines: %w", err)
			}
			return enc.Close()
		},
	}
}
