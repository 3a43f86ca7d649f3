package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/adapters/secondary/datasetfile"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/orgmap"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/ticket-insights/internal/core/ingest"
)

var (
	ingestOutput   string
	ingestOrgMap   string
	ingestSkipRows int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest SPREADSHEET",
	Short: "Build the dashboard dataset from a ticket spreadsheet",
	Long: `Read the ticket rows of an .xlsx export and write the pre-aggregated
dataset document the dashboard loads.

Examples:
  ticketdash ingest 需求工单统计表.xlsx
  ticketdash ingest export.xlsx -o /srv/dashboard/ticket_data.json --org-map departments.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "ticket_data.json", "Dataset file to write")
	ingestCmd.Flags().StringVar(&ingestOrgMap, "org-map", "", "YAML file mapping departments to first-level departments")
	ingestCmd.Flags().IntVar(&ingestSkipRows, "skip-rows", spreadsheet.DefaultSkipRows, "Leading rows to skip (header and notes)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	mapper, err := orgmap.Load(ingestOrgMap)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	records, err := spreadsheet.NewReader(ingestSkipRows).ReadRecords(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}

	ds, err := ingest.Build(records, mapper, time.Now())
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}

	raw, err := datasetfile.NewSource(ingestOutput).Write(cmd.Context(), ds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d bytes)\n", ingestOutput, len(raw))
	fmt.Fprintf(out, "  tickets:     %d\n", ds.Summary.TotalTickets)
	fmt.Fprintf(out, "  departments: %d\n", ds.Summary.TotalDepartments)
	fmt.Fprintf(out, "  date range:  %s to %s\n", ds.Summary.DateRange.Start, ds.Summary.DateRange.End)
	fmt.Fprintf(out, "  unfinished:  %d\n", len(ds.UnfinishedTickets))
	fmt.Fprintf(out, "  fingerprint: %s\n", datasetfile.Fingerprint(raw))
	return nil
}
