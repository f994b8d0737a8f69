package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/document"
	"github.com/warp/nizami/i18n"
	"github.com/warp/nizami/tui"
)

// =============================================================================
// KIOSK
// =============================================================================

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Open the employee kiosk in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(cmd.Context())
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		if err := tui.Run(a.svc, a.settings.Language); err != nil {
			fail("running portal", err)
		}
	},
}

// =============================================================================
// CLOCK
// =============================================================================

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Record a clock event for an employee",
}

var clockInCmd = &cobra.Command{
	Use:   "in <employee-id>",
	Short: "Clock an employee in now",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runClock(cmd, attendance.EmployeeID(args[0]), true)
	},
}

var clockOutCmd = &cobra.Command{
	Use:   "out <employee-id>",
	Short: "Clock an employee out now",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runClock(cmd, attendance.EmployeeID(args[0]), false)
	},
}

func runClock(cmd *cobra.Command, id attendance.EmployeeID, in bool) {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		fail("opening nizami", err)
	}
	defer a.close()

	emp, err := a.svc.GetEmployee(ctx, id)
	if err == nil && !emp.Active {
		err = attendance.ErrEmployeeNotFound
	}
	if err != nil {
		fail("looking up employee", err)
	}

	var res attendance.ClockResult
	if in {
		res, err = a.svc.ClockIn(ctx, id, time.Now())
	} else {
		res, err = a.svc.ClockOut(ctx, id, time.Now())
	}
	if err != nil {
		fail("recording clock event", err)
	}

	switch {
	case !res.Applied && in:
		fmt.Printf("%s already clocked in today.\n", emp.Name)
	case !res.Applied:
		fmt.Printf("%s has no open shift today.\n", emp.Name)
	case in:
		fmt.Printf("%s clocked in at %s.\n", emp.Name, res.Record.CheckIn.Format("15:04"))
	default:
		fmt.Printf("%s clocked out at %s: %s h, %s.\n", emp.Name,
			res.Record.CheckOut.Format("15:04"), res.Record.TotalHours.StringFixed(2), res.Record.Status)
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage the roster",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		all, _ := cmd.Flags().GetBool("all")
		employees, err := a.svc.ListEmployees(ctx, all)
		if err != nil {
			fail("listing employees", err)
		}

		lang := a.settings.Language
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\tROLE\t%s\t%s\tACTIVE\n",
			i18n.T(lang, "employees.name"), i18n.T(lang, "employees.hourlyRate"), i18n.T(lang, "employees.startDate"))
		for _, e := range employees {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", e.ID, e.Name, e.Role, e.HourlyRate, e.StartDate, e.Active)
		}
		w.Flush()
	},
}

var employeesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		rateFlag, _ := cmd.Flags().GetString("rate")
		rate, err := decimal.NewFromString(rateFlag)
		if err != nil {
			fail("parsing --rate", err)
		}
		role, _ := cmd.Flags().GetString("role")
		in := attendance.NewEmployee{Name: args[0], Role: attendance.Role(role), HourlyRate: rate}
		if start, _ := cmd.Flags().GetString("start"); start != "" {
			if in.StartDate, err = attendance.ParseDate(start); err != nil {
				fail("parsing --start", err)
			}
		}

		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		emp, err := a.svc.AddEmployee(ctx, in, time.Now())
		if err != nil {
			fail("adding employee", err)
		}
		fmt.Printf("Added %s (%s)\n", emp.Name, emp.ID)
	},
}

var employeesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <employee-id>",
	Short: "Hide an employee from the roster and payroll (keeps history)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		emp, err := a.svc.DeactivateEmployee(ctx, attendance.EmployeeID(args[0]))
		if err != nil {
			fail("deactivating employee", err)
		}
		fmt.Printf("Deactivated %s\n", emp.Name)
	},
}

var employeesRemoveCmd = &cobra.Command{
	Use:   "remove <employee-id>",
	Short: "Delete an employee from the roster (attendance is kept)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		if err := a.svc.RemoveEmployee(ctx, attendance.EmployeeID(args[0])); err != nil {
			fail("removing employee", err)
		}
		fmt.Printf("Removed %s\n", args[0])
	},
}

// =============================================================================
// PAYROLL
// =============================================================================

var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Print the payroll for the cycle enclosing a date",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ref := time.Now()
		if raw, _ := cmd.Flags().GetString("date"); raw != "" {
			day, err := attendance.ParseDate(raw)
			if err != nil {
				fail("parsing --date", err)
			}
			ref = day.In(time.Local)
		}

		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		report, err := a.svc.Payroll(ctx, ref)
		if err != nil {
			fail("computing payroll", err)
		}

		lang := a.settings.Language
		fmt.Printf("%s  %s → %s\n\n", i18n.T(lang, "payroll.title"),
			report.Period.StartDate(), report.Period.EndDate())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			i18n.T(lang, "employees.name"), i18n.T(lang, "payroll.days"),
			i18n.T(lang, "log.totalHours"), i18n.T(lang, "employees.hourlyRate"),
			i18n.T(lang, "payroll.netSalary"))
		for _, l := range report.Lines {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n",
				l.Name, l.ShiftCount, l.TotalHours.StringFixed(2), l.HourlyRate, l.NetPay)
		}
		w.Flush()

		fmt.Printf("\n%s: %s\n", i18n.T(lang, "payroll.totalPayout"), report.Total)
	},
}

// =============================================================================
// IMPORT / EXPORT / SEED
// =============================================================================

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the whole state as a JSON document (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		doc, err := document.Export(ctx, a.svc.Store())
		if err != nil {
			fail("exporting", err)
		}

		if len(args) == 0 {
			if err := document.Encode(os.Stdout, doc); err != nil {
				fail("writing document", err)
			}
			return
		}
		if err := document.WriteFile(args[0], doc); err != nil {
			fail("writing document", err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the whole state with a JSON document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		doc, err := document.ReadFile(args[0])
		if err != nil {
			fail("reading document", err)
		}

		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		if err := document.Import(ctx, a.svc.Store(), doc); err != nil {
			fail("importing", err)
		}
		fmt.Printf("Imported %d employees, %d attendance records, %d transactions\n",
			len(doc.Employees), len(doc.Attendance), len(doc.Transactions))
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the demo employees to an empty roster",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			fail("opening nizami", err)
		}
		defer a.close()

		seeded, err := a.svc.SeedDemo(ctx, time.Now())
		if err != nil {
			fail("seeding", err)
		}
		if !seeded {
			fmt.Println("Roster is not empty; nothing to do.")
			return
		}
		fmt.Println("Added demo employees.")
	},
}

func init() {
	clockCmd.AddCommand(clockInCmd)
	clockCmd.AddCommand(clockOutCmd)

	employeesListCmd.Flags().Bool("all", false, "include deactivated employees")
	employeesAddCmd.Flags().String("rate", "0", "hourly rate")
	employeesAddCmd.Flags().String("role", string(attendance.RoleEmployee), "role (owner|employee)")
	employeesAddCmd.Flags().String("start", "", "start date YYYY-MM-DD (default today)")
	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesAddCmd)
	employeesCmd.AddCommand(employeesDeactivateCmd)
	employeesCmd.AddCommand(employeesRemoveCmd)

	payrollCmd.Flags().String("date", "", "reference date YYYY-MM-DD (default today)")
}
