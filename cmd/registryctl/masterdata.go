package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
)

func newMasterDataCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "masterdata",
		Short: "Show reference lists",
	}
	showCmd := &cobra.Command{
		Use:   "show [LIST]",
		Short: "Print every reference list, or only LIST",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var md masterdata.Data
			if err := opts.client().MasterData(ctx, &md); err != nil {
				return fmt.Errorf("load master data: %w", err)
			}

			lists := make([]string, 0, len(md))
			if len(args) == 1 {
				if _, ok := md[args[0]]; !ok {
					return fmt.Errorf("unknown list %q", args[0])
				}
				lists = append(lists, args[0])
			} else {
				for name := range md {
					lists = append(lists, name)
				}
				sort.Strings(lists)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LIST\tCODE\tLABEL")
			for _, name := range lists {
				for _, opt := range md.Options(name) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", name, opt.Code, opt.Label)
				}
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(showCmd)
	return cmd
}
