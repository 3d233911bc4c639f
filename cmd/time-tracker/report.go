package main

import (
	"fmt"
	"strconv"
	"time"

	"Mansoor88-6/time-tracker/internal/console"
	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/report"

	"github.com/spf13/cobra"
)

var (
	reportWeek string

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print time reports",
	}

	weeklyCmd = &cobra.Command{
		Use:   "weekly",
		Short: "Hours per day for one week (Monday to Sunday)",
		RunE:  runWeekly,
	}

	projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "Time spent per project",
		RunE:  runProjects,
	}
)

func init() {
	weeklyCmd.Flags().StringVar(&reportWeek, "week", "",
		"Any date in the week to report (YYYY-MM-DD, defaults to this week)")
	reportCmd.AddCommand(weeklyCmd, projectsCmd)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if reportWeek != "" {
		t, err := time.ParseInLocation(models.DateLayout, reportWeek, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --week %q: %w", reportWeek, err)
		}
		day = t
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	weekly := report.Weekly(a.service.All(), report.WeekStart(day))
	rows := make([][]string, 0, len(weekly.Days)+1)
	for _, d := range weekly.Days {
		rows = append(rows, []string{d.Day, d.Date, d.Formatted, strconv.FormatFloat(d.Hours, 'f', 2, 64)})
	}
	rows = append(rows, []string{"Total", "", weekly.Formatted, ""})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week %s to %s\n\n", weekly.Start, weekly.End)
	return console.Table(out, []string{"Day", "Date", "Time", "Hours"}, rows, 2, 3)
}

func runProjects(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	totals := report.ByProject(a.service.All(), a.service.Projects())
	if len(totals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No time tracked yet.")
		return nil
	}

	rows := make([][]string, len(totals))
	for i, p := range totals {
		rows[i] = []string{p.Name, p.Formatted, strconv.FormatFloat(p.Percent, 'f', 1, 64) + "%"}
	}
	return console.Table(cmd.OutOrStdout(), []string{"Project", "Time", "Share"}, rows, 1, 2)
}
