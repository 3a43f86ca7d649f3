// ticketdash works with ticket datasets from the command line.
//
// Usage:
//
//	ticketdash ingest 需求工单统计表.xlsx -o ticket_data.json
//	ticketdash stats department --year 2023 --half first
//	ticketdash upload 需求工单统计表.xlsx --server http://localhost:8080 --token $TOKEN
//	ticketdash token --subject ops@example.com --ttl 2h
package main

import (
	"fmt"
	"os"

	"github.com/lorrc/ticket-insights/cmd/ticketdash/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
