package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the presentations that spoken names are matched against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {

			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			presentations, err := loadCatalog(cmd.Context(), cfg)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(presentations) == 0 {
				fmt.Fprintln(out, "No presentations configured")
				return nil
			}

			rows := make([][]string, 0, len(presentations))
			for _, item := range presentations {
				rows = append(rows, []string{item.Name, item.Filename})
			}

			fmt.Fprintln(out, renderTable([]string{"Name", "Filename"}, rows))
			return nil
		},
	}
}
