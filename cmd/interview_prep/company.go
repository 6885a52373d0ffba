package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/jonathan/interview-prep/internal/transfer"
	"github.com/spf13/cobra"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies and their question banks",
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies; the current one is marked with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(_ context.Context, st *store.Store) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range st.Companies() {
				mark := " "
				if c.ID == st.CurrentID() {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", mark, c.ID, c.Name, c.Data.TotalQuestions)
			}
			return tw.Flush()
		})
	},
}

var companyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an empty company and select it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			c, err := st.AddCompany(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created company %s (%s)\n", c.Name, c.ID)
			return nil
		})
	},
}

var companyRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a company",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			if _, ok := st.Company(args[0]); !ok {
				return fmt.Errorf("company not found: %s", args[0])
			}
			if err := st.RenameCompany(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed company %s to %s\n", args[0], args[1])
			return nil
		})
	},
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company; the last company cannot be deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			if _, ok := st.Company(args[0]); !ok {
				return fmt.Errorf("company not found: %s", args[0])
			}
			if err := st.DeleteCompany(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted company %s; current is %s\n", args[0], st.CurrentID())
			return nil
		})
	},
}

var companySelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a company current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			if _, ok := st.Company(args[0]); !ok {
				return fmt.Errorf("company not found: %s", args[0])
			}
			if err := st.SelectCompany(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected company %s\n", args[0])
			return nil
		})
	},
}

var (
	exportOut    string
	exportFormat string
)

var companyExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a company as a JSON template or an Excel workbook",
	Long: `Export a company (the current one when no id is given). The JSON template can be
imported again; the xlsx workbook is for reading only. Without --out the file is written
to the current directory under its default name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompanyExport,
}

func runCompanyExport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(_ context.Context, st *store.Store) error {
		c := st.Current()
		if len(args) == 1 {
			var ok bool
			if c, ok = st.Company(args[0]); !ok {
				return fmt.Errorf("company not found: %s", args[0])
			}
		}

		var (
			buf  bytes.Buffer
			name string
		)
		switch exportFormat {
		case "json":
			raw, err := transfer.EncodeTemplate(transfer.ExportCompany(c, time.Now()))
			if err != nil {
				return err
			}
			buf.Write(raw)
			name = transfer.ExportFileName(c.Name)
		case "xlsx":
			if err := transfer.WriteWorkbook(&buf, bank.New(c.Data, c.CustomCategories)); err != nil {
				return err
			}
			name = transfer.WorkbookFileName(c.Name)
		default:
			return fmt.Errorf("unsupported format %q (want json or xlsx)", exportFormat)
		}

		out := exportOut
		if out == "" {
			out = name
		}
		if dir := filepath.Dir(out); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write export file %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", c.Name, out)
		return nil
	})
}

var companyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a company from a JSON template and select it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file %s: %w", args[0], err)
		}
		tmpl, err := transfer.ParseCompanyTemplate(raw)
		if err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			c, err := st.ImportCompany(ctx, tmpl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported company %s (%s) with %d questions\n", c.Name, c.ID, c.Data.TotalQuestions)
			return nil
		})
	},
}

func init() {
	companyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path")
	companyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or xlsx")

	companyCmd.AddCommand(companyListCmd, companyAddCmd, companyRenameCmd, companyDeleteCmd,
		companySelectCmd, companyExportCmd, companyImportCmd)
	rootCmd.AddCommand(companyCmd)
}
