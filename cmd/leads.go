package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

var (
	leadsStage  string
	leadsLimit  int
	leadsOffset int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and export stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(cmd.Context(), store.LeadFilter{
			Stage:  model.Stage(leadsStage),
			Limit:  leadsLimit,
			Offset: leadsOffset,
		})
		if err != nil {
			return err
		}

		for _, l := range leads {
			fmt.Printf("%s  %-10s  %s  %d msgs\n",
				l.ID, l.Stage, l.CreatedAt.Format("2006-01-02 15:04"), len(l.Raw.Messages))
		}
		fmt.Printf("%d leads\n", len(leads))
		return nil
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Print one lead as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.GetLead(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

var leadsExportOut string

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(cmd.Context(), store.LeadFilter{
			Stage: model.Stage(leadsStage),
			Limit: leadsLimit,
		})
		if err != nil {
			return err
		}

		if err := writeLeadsXLSX(leads, leadsExportOut); err != nil {
			return err
		}

		zap.L().Info("leads exported",
			zap.Int("count", len(leads)),
			zap.String("path", leadsExportOut))
		return nil
	},
}

// writeLeadsXLSX writes one row per lead with the fields a sales
// manager reviews: stage, vehicles, budget, trade, brief summary.
func writeLeadsXLSX(leads []model.Lead, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"ID", "Stage", "Created", "Vehicles", "Budget", "Timeline",
		"Trade-In", "Finance", "First Question", "Brief",
	} {
		header.AddCell().Value = h
	}

	for _, l := range leads {
		row := sheet.AddRow()
		row.AddCell().Value = l.ID
		row.AddCell().Value = string(l.Stage)
		row.AddCell().Value = l.CreatedAt.Format("2006-01-02 15:04")
		row.AddCell().Value = formatVehicles(l.Extracted.Vehicles)
		row.AddCell().Value = formatBudget(l.Extracted.Budget)
		row.AddCell().Value = deref(l.Extracted.Timeline.Explicit, deref(l.Extracted.Timeline.Inferred, ""))
		row.AddCell().Value = formatTradeIn(l.Extracted.TradeIn)
		row.AddCell().Value = string(l.Extracted.Finance.Preference)
		row.AddCell().Value = l.SalesBrief.FirstQuestion
		row.AddCell().Value = strings.Join(l.SalesBrief.Bullets, "; ")
	}

	return eris.Wrap(f.Save(path), "export: save workbook")
}

func formatVehicles(vehicles []model.Vehicle) string {
	parts := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		name := strings.TrimSpace(deref(v.Make, "") + " " + deref(v.Model, ""))
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func formatBudget(b model.Budget) string {
	if b.Value == nil {
		return string(b.Type)
	}
	return fmt.Sprintf("%.0f %s (%s)", *b.Value, b.Currency, b.Type)
}

func formatTradeIn(t model.TradeIn) string {
	if !t.HasTrade {
		return ""
	}
	return deref(t.Desc, "yes")
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func init() {
	leadsCmd.PersistentFlags().StringVar(&leadsStage, "stage", "", "filter by stage (raw-only or extracted)")
	leadsCmd.PersistentFlags().IntVar(&leadsLimit, "limit", 100, "max leads")
	leadsCmd.PersistentFlags().IntVar(&leadsOffset, "offset", 0, "list offset")
	leadsExportCmd.Flags().StringVar(&leadsExportOut, "out", "leads.xlsx", "output file")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}
