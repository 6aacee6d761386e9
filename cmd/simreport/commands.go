package main

import (
	"fmt"
	"os"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/config"
	"github.com/rpgo/simreport/internal/inspect"
	"github.com/rpgo/simreport/internal/views"
	"github.com/spf13/cobra"
)

func newViewsCmd() *cobra.Command {
	var viewsFile string
	cmd := &cobra.Command{
		Use:   "views",
		Short: "List the column views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := views.Default()
			if viewsFile != "" {
				if err := config.NewInputParser().LoadViews(viewsFile, resolver); err != nil {
					return err
				}
			}
			var rows [][]string
			for _, name := range resolver.Names() {
				ids, err := resolver.Resolve(name)
				if err != nil {
					return err
				}
				names := make([]string, len(ids))
				for i, id := range ids {
					names[i] = id.String()
					if id.IsBlank() {
						names[i] = "-"
					}
				}
				rows = append(rows, []string{name, strings.Join(names, ", ")})
			}
			return writeList(cmd.OutOrStdout(), []string{"VIEW", "COLUMNS"}, rows)
		},
	}
	cmd.Flags().StringVar(&viewsFile, "views", "", "YAML file with additional views")
	return cmd
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns available to views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, id := range columns.All() {
				d := columns.DescriptorFor(id)
				rows = append(rows, []string{id.String(), d.Name, d.Format.Code(), d.Tooltip})
			}
			return writeList(cmd.OutOrStdout(), []string{"ID", "HEADER", "FORMAT", "DESCRIPTION"}, rows)
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <report.xlsx>",
		Short: "Summarize the sheets and styles of a produced workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := inspect.ReadFile(args[0])
			if err != nil {
				return err
			}
			return wb.WriteSummary(cmd.OutOrStdout())
		},
	}
}

func newExampleCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "example [request.yaml]",
		Short: "Write an example request file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "request.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			if _, err := os.Stat(filename); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", filename)
			}
			parser := config.NewInputParser()
			if err := parser.SaveRequest(parser.CreateExampleRequest(), filename); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filename)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// writeList prints a borderless left-aligned listing.
func writeList(w io.Writer, header []string, rows [][]string) error {
	re := lipgloss.NewRenderer(w)
	cell := re.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}
