package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newUploadCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.json>",
		Short: "Upload a profiling document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Upload(cmd, args[0])
		},
	}
}

func newHistoryCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().History(cmd)
		},
	}
}

func newDashboardCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals over all your analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Dashboard(cmd)
		},
	}
}

func newReportCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report <id>",
		Short: "Show one analysis with its functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid analysis id %q", args[0])
			}
			return app().Report(cmd, id)
		},
	}
}

func (a *App) Upload(cmd *cobra.Command, path string) error {
	if err := a.authorize(); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	id, err := a.client.Upload(cmd.Context(), filepath.Base(path), raw)
	if err != nil {
		return sessionError(err)
	}

	fmt.Fprintf(a.out, "Uploaded analysis %d\n", id)
	return nil
}

func (a *App) History(cmd *cobra.Command) error {
	if err := a.authorize(); err != nil {
		return err
	}

	items, err := a.client.History(cmd.Context())
	if err != nil {
		return sessionError(err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No analyses yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROGRAM\tTOTAL TIME\tTIMESTAMP")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ID, it.ProgramName, seconds(it.TotalTime), it.Timestamp)
	}
	return tw.Flush()
}

func (a *App) Dashboard(cmd *cobra.Command) error {
	if err := a.authorize(); err != nil {
		return err
	}

	s, err := a.client.Dashboard(cmd.Context())
	if err != nil {
		return sessionError(err)
	}
	if s.Message != "" {
		fmt.Fprintln(a.out, s.Message)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Analyses:\t%d\n", s.Count)
	fmt.Fprintf(tw, "Total time:\t%s\n", seconds(s.TotalTime))
	fmt.Fprintf(tw, "Average time:\t%s\n", seconds(s.AverageTime))
	return tw.Flush()
}

func (a *App) Report(cmd *cobra.Command, id int64) error {
	if err := a.authorize(); err != nil {
		return err
	}

	r, err := a.client.Report(cmd.Context(), id)
	if err != nil {
		return sessionError(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Program:\t%s\n", r.Analysis.ProgramName)
	fmt.Fprintf(tw, "Total time:\t%s\n", seconds(r.Analysis.TotalTime))
	fmt.Fprintf(tw, "Timestamp:\t%s\n", r.Analysis.Timestamp)
	fmt.Fprintf(tw, "Functions:\t%d\n", r.Stats.Count)
	fmt.Fprintf(tw, "Max calls:\t%d\n", r.Stats.MaxCallCount)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(r.Analysis.Functions) == 0 {
		return nil
	}

	fmt.Fprintln(a.out)
	tw = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tEXEC TIME\tCALLS\tAVG TIME\tSHARE")
	// breakdown rows come in the same order as the functions
	for i, f := range r.Analysis.Functions {
		var share float64
		if i < len(r.Breakdown) {
			share = r.Breakdown[i].Share
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.1f%%\n",
			f.Name, seconds(f.ExecTime), f.CallCount, seconds(f.AvgTime), share*100)
	}
	return tw.Flush()
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}
