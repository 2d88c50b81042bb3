package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type ListCmd struct{}

func NewListCmd() *ListCmd {
	return &ListCmd{}
}

func (c *ListCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(cmd.Context()) }()

			if err := a.build(cmd.Context()); err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetBorder(false)
			table.SetHeader([]string{"Pipeline", "Description", "Steps"})

			for _, name := range a.set.Names() {
				def, _ := a.set.Describe(name)
				table.Append([]string{name, def.Description, strconv.Itoa(len(def.Steps))})
			}
			table.Render()
			return nil
		},
	}
}
