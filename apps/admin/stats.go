package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/sesiones/core/session"
)

func (cli *commandLine) stats(ctx context.Context) error {
	stats, err := cli.sessSvc.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "total\t%d\n", stats.Total)
	_, _ = fmt.Fprintf(w, "pendientes\t%d\n", stats.Pending)
	_, _ = fmt.Fprintf(w, "confirmadas\t%d\n", stats.Confirmed)
	_, _ = fmt.Fprintf(w, "realizadas\t%d\n", stats.Completed)
	_, _ = fmt.Fprintf(w, "anuladas\t%d\n", stats.Cancelled)
	_, _ = fmt.Fprintf(w, "atrasadas\t%d\n", stats.Overdue)
	_, _ = fmt.Fprintln(w, "\t")
	for _, g := range session.Groups {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", g, stats.ByGroup[g])
	}
	_, _ = fmt.Fprintln(w, "\t")
	for _, sc := range stats.BySpeaker {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", sc.Speaker, sc.Count)
	}
	return w.Flush()
}
