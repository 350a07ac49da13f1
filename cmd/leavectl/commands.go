package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// =============================================================================
// calendar
// =============================================================================

var calendarFlags struct {
	year     int
	month    int
	holidays string
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show working and non-working days of a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		if calendarFlags.month < 1 || calendarFlags.month > 12 {
			return fmt.Errorf("--month must be 1..12")
		}
		cal, err := loadCalendar(calendarFlags.holidays)
		if err != nil {
			return err
		}

		month := time.Month(calendarFlags.month)
		period := generic.Period{
			Start: generic.StartOfMonth(calendarFlags.year, month),
			End:   generic.EndOfMonth(calendarFlags.year, month),
		}
		closed := cal.NonWorkingDays(period)

		if jsonOutput {
			return printJSON(struct {
				WorkingDays int                   `json:"working_days"`
				NonWorking  []leave.NonWorkingDay `json:"non_working"`
			}{cal.WorkingDays(period), closed})
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetTitle(fmt.Sprintf("%s %d", month, calendarFlags.year))
		tw.AppendHeader(table.Row{"Date", "Weekday", "Kind", "Name"})
		for _, nw := range closed {
			tw.AppendRow(table.Row{nw.Date, nw.Date.Weekday(), nw.Kind, nw.Name})
		}
		tw.AppendFooter(table.Row{"", "", "Working days", cal.WorkingDays(period)})
		tw.Render()
		return nil
	},
}

// =============================================================================
// days
// =============================================================================

var daysFlags struct {
	leaveType string
	start     string
	end       string
	holidays  string
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Price a leave range in chargeable days",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := leave.ParseLeaveType(daysFlags.leaveType)
		if err != nil {
			return err
		}
		cal, err := loadCalendar(daysFlags.holidays)
		if err != nil {
			return err
		}

		dur, err := leave.NewDurations(leave.DefaultCatalog(), cal).Compute(t, daysFlags.start, daysFlags.end)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]any{
				"leave_type":      dur.Type,
				"bucket":          dur.Bucket,
				"start_date":      dur.Period.Start.String(),
				"end_date":        dur.Period.End.String(),
				"chargeable_days": dur.Days.InexactFloat64(),
			})
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Type", "Bucket", "Start", "End", "Calendar days", "Chargeable"})
		tw.AppendRow(table.Row{dur.Type, dur.Bucket, dur.Period.Start, dur.Period.End, dur.Period.Len(), dur.Days.String()})
		tw.Render()
		return nil
	},
}

// =============================================================================
// check
// =============================================================================

var checkFlags struct {
	file  string
	today string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the draft application in a scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(checkFlags.file)
		if err != nil {
			return err
		}

		todayRaw := checkFlags.today
		if todayRaw == "" {
			todayRaw = sc.Today
		}
		today := generic.Today()
		if todayRaw != "" {
			if today, err = generic.ParseDate(todayRaw); err != nil {
				return fmt.Errorf("today: %w", err)
			}
		}

		res, err := sc.evaluate(today)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendRows([]table.Row{
			{"Decision", res.Decision},
			{"Reason", res.Reason},
			{"Message", res.Message},
			{"Type", res.Type},
			{"Bucket", res.Bucket},
			{"Start", res.StartDate},
			{"End", res.EndDate},
			{"Chargeable days", res.ChargeableDays.String()},
		})
		if len(res.Conflicts) > 0 {
			tw.AppendRow(table.Row{"Conflicts", strings.Join(res.Conflicts, ", ")})
		}
		for _, w := range res.Warnings {
			tw.AppendRow(table.Row{"Warning", w})
		}
		tw.Render()

		if !res.Accepted() {
			cmd.SilenceErrors = true
			return fmt.Errorf("rejected: %s", res.Reason)
		}
		return nil
	},
}

func init() {
	now := time.Now()
	calendarCmd.Flags().IntVar(&calendarFlags.year, "year", now.Year(), "calendar year")
	calendarCmd.Flags().IntVar(&calendarFlags.month, "month", int(now.Month()), "month (1-12)")
	calendarCmd.Flags().StringVar(&calendarFlags.holidays, "holidays", "", "holidays YAML file")

	daysCmd.Flags().StringVar(&daysFlags.leaveType, "type", "", "leave type (CL, EL, ML, PL, LWP, HALF_DAY_CL, ...)")
	daysCmd.Flags().StringVar(&daysFlags.start, "start", "", "start date (YYYY-MM-DD)")
	daysCmd.Flags().StringVar(&daysFlags.end, "end", "", "end date (YYYY-MM-DD), ranged types only")
	daysCmd.Flags().StringVar(&daysFlags.holidays, "holidays", "", "holidays YAML file")
	_ = daysCmd.MarkFlagRequired("type")
	_ = daysCmd.MarkFlagRequired("start")

	checkCmd.Flags().StringVar(&checkFlags.file, "file", "", "scenario YAML file")
	checkCmd.Flags().StringVar(&checkFlags.today, "today", "", "evaluate as of this date (default: scenario's today, then the real date)")
	_ = checkCmd.MarkFlagRequired("file")
}
