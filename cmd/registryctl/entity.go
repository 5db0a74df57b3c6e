package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/backend"
	"github.com/odyssey-erp/odyssey-admin/internal/registry"
)

type listOptions struct {
	search   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

// newEntityCmd builds the list/delete subcommands for one registry entity.
// The command name is the backend collection, e.g. "partners".
func newEntityCmd[T crud.Record, F any](opts *globalOptions, def registry.Definition[T, F], short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.Entity,
		Short: short,
	}

	lo := &listOptions{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", def.Entity),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, def, lo)
		},
	}
	listCmd.Flags().StringVarP(&lo.search, "search", "s", "", "Case-insensitive search term")
	listCmd.Flags().StringVar(&lo.sort, "sort", "", "Column key to sort by")
	listCmd.Flags().BoolVar(&lo.desc, "desc", false, "Sort descending")
	listCmd.Flags().IntVarP(&lo.page, "page", "p", 1, "Page number")
	listCmd.Flags().IntVar(&lo.pageSize, "page-size", 0, "Rows per page (0 prints every row)")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s by id", def.Noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, opts, def, args[0])
		},
	}

	cmd.AddCommand(listCmd, deleteCmd)
	return cmd
}

func newController[T crud.Record, F any](cmd *cobra.Command, opts *globalOptions, def registry.Definition[T, F], pageSize int) (*crud.Controller[T, F], *backend.Client) {
	client := opts.client()
	ctrl := crud.NewController[T, F](backend.NewGateway[T](client, def.Entity), def.Schema, crud.Options{
		Entity:   def.Entity,
		Noun:     def.Noun,
		PageSize: pageSize,
		Logger:   opts.logger(cmd.ErrOrStderr()),
	})
	return ctrl, client
}

func runList[T crud.Record, F any](cmd *cobra.Command, opts *globalOptions, def registry.Definition[T, F], lo *listOptions) error {
	if lo.sort != "" && !sortable(def.Columns, lo.sort) {
		return fmt.Errorf("unknown sort column %q (want one of %s)", lo.sort, strings.Join(sortKeys(def.Columns), ", "))
	}
	pageSize := lo.pageSize
	if pageSize <= 0 {
		pageSize = -1
	}
	ctrl, client := newController(cmd, opts, def, pageSize)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", ctrl.Err(), errors.Unwrap(err))
	}

	var md masterdata.Data
	if def.MasterData {
		if err := client.MasterData(ctx, &md); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: master data unavailable: %v\n", err)
		}
	}

	ctrl.SetSearchTerm(lo.search)
	if lo.sort != "" {
		dir := crud.SortAsc
		if lo.desc {
			dir = crud.SortDesc
		}
		ctrl.SetSort(lo.sort, dir)
	}
	ctrl.SetCurrentPage(lo.page)

	out := cmd.OutOrStdout()
	rows := ctrl.Page()
	if len(rows) == 0 {
		fmt.Fprintf(out, "No %s found.\n", def.Entity)
		return nil
	}
	if err := writeTable(out, def.Columns, rows, md); err != nil {
		return err
	}
	if lo.pageSize > 0 {
		fmt.Fprintf(out, "\nPage %d of %d (%d matching)\n", ctrl.CurrentPage(), ctrl.TotalPages(), len(ctrl.View()))
	}
	return nil
}

func runDelete[T crud.Record, F any](cmd *cobra.Command, opts *globalOptions, def registry.Definition[T, F], id string) error {
	ctrl, _ := newController(cmd, opts, def, 0)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", ctrl.Err(), errors.Unwrap(err))
	}
	item, ok := ctrl.Find(id)
	if !ok {
		return fmt.Errorf("%s %s not found", def.Noun, id)
	}
	if err := ctrl.HandleDelete(ctx, item); err != nil {
		return fmt.Errorf("%s: %w", ctrl.Err(), errors.Unwrap(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s deleted: %s\n", def.Singular, item.SearchText())
	return nil
}

func writeTable[T crud.Record](w io.Writer, columns []registry.Column[T], rows []T, md masterdata.Data) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(columns)+1)
	header = append(header, "ID")
	for _, col := range columns {
		header = append(header, strings.ToUpper(col.Label))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, item := range rows {
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, item.RecordID())
		for _, col := range columns {
			cells = append(cells, col.Cell(item, md))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func sortable[T crud.Record](columns []registry.Column[T], key string) bool {
	for _, col := range columns {
		if col.Key == key && col.Sortable {
			return true
		}
	}
	return false
}

func sortKeys[T crud.Record](columns []registry.Column[T]) []string {
	var keys []string
	for _, col := range columns {
		if col.Sortable {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
