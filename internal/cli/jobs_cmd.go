package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/jobs"
	"github.com/and161185/jobboard/internal/model"
)

const recommendedCount = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366f1"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	appliedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
)

func (r *runtime) newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse job listings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List jobs matching the filters",
		Args:  cobra.NoArgs,
	}
	f := list.Flags()
	f.StringP("search", "s", "", "match title or company")
	f.StringSlice("type", nil, "employment types, e.g. Full-time")
	f.StringSlice("mode", nil, "work modes: "+strings.Join(jobs.WorkModes, ", "))
	f.StringSlice("salary", nil, "salary ranges: "+strings.Join(jobs.SalaryRanges, ", "))
	f.StringSlice("experience", nil, "experience levels")
	f.StringSlice("city", nil, "cities: "+strings.Join(jobs.Cities, ", "))
	f.String("sort", jobs.SortRecent, "sort order: "+strings.Join(jobs.SortOrders, " | "))
	f.Bool("json", false, "print JSON")
	list.RunE = r.wrap(r.runJobsList)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a job with recommendations",
		Args:  cobra.ExactArgs(1),
	}
	show.RunE = r.wrap(r.runJobsShow)

	filters := &cobra.Command{
		Use:   "filters",
		Short: "List available filter values",
		Args:  cobra.NoArgs,
	}
	filters.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "type:       %s\n", strings.Join(r.app.Jobs.EmploymentTypes(), ", "))
		fmt.Fprintf(out, "mode:       %s\n", strings.Join(jobs.WorkModes, ", "))
		fmt.Fprintf(out, "salary:     %s\n", strings.Join(jobs.SalaryRanges, ", "))
		fmt.Fprintf(out, "experience: %s\n", strings.Join(r.app.Jobs.ExperienceLevels(), ", "))
		fmt.Fprintf(out, "city:       %s\n", strings.Join(jobs.Cities, ", "))
		return nil
	})

	cmd.AddCommand(list, show, filters)
	return cmd
}

func (r *runtime) runJobsList(cmd *cobra.Command, _ []string) error {
	fs := cmd.Flags()
	var flt jobs.Filter
	flt.Search, _ = fs.GetString("search")
	flt.EmploymentTypes, _ = fs.GetStringSlice("type")
	flt.WorkModes, _ = fs.GetStringSlice("mode")
	flt.SalaryRanges, _ = fs.GetStringSlice("salary")
	flt.Experience, _ = fs.GetStringSlice("experience")
	flt.Cities, _ = fs.GetStringSlice("city")
	order, _ := fs.GetString("sort")
	asJSON, _ := fs.GetBool("json")

	if !slices.Contains(jobs.SortOrders, order) {
		return exitError(exitUsage, "unknown sort order %q", order)
	}

	found := jobs.Apply(r.app.Jobs.All(), flt, order)
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, found)
	}
	if len(found) == 0 {
		fmt.Fprintln(out, "No jobs match the selected filters.")
		return nil
	}
	fmt.Fprintf(out, "%d jobs found\n", len(found))
	for _, j := range found {
		fmt.Fprintf(out, "%3d  %s  %s\n", j.ID, titleStyle.Render(j.Title),
			labelStyle.Render(fmt.Sprintf("%s · %s · %s · %s", j.Company, j.Location, j.EmploymentType, j.Salary)))
	}
	return nil
}

func (r *runtime) runJobsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return exitError(exitUsage, "invalid job id %q", args[0])
	}
	j, ok := r.app.Jobs.Find(id)
	if !ok {
		return errs.ErrNotFound
	}

	out := cmd.OutOrStdout()
	printJob(out, j)
	if _, signedIn := r.app.Auth.CurrentUser(ctx); signedIn {
		if applied, err := r.app.Applications.HasApplied(ctx, id); err == nil && applied {
			fmt.Fprintln(out, appliedStyle.Render("✓ You have applied for this job"))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, labelStyle.Render("Recommended jobs:"))
	for _, rec := range r.app.Jobs.Recommended(id, recommendedCount) {
		fmt.Fprintf(out, "%3d  %s  %s\n", rec.ID, rec.Title, labelStyle.Render(rec.Company))
	}
	return nil
}

func printJob(out io.Writer, j model.Job) {
	fmt.Fprintln(out, titleStyle.Render(j.Title))
	rows := [][2]string{
		{"Company", j.Company},
		{"Location", j.Location},
		{"Type", j.EmploymentType},
		{"Work mode", j.WorkMode},
		{"Salary", j.Salary},
		{"Experience", j.Experience},
		{"Posted", j.PostedDate},
		{"Skills", strings.Join(j.Skills, ", ")},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", row[0]+":")), row[1])
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, j.Description)
}

func (r *runtime) newFAQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Frequently asked questions",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for i, q := range r.app.Jobs.FAQs() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, titleStyle.Render(q.Question))
			fmt.Fprintln(out, q.Answer)
		}
		return nil
	})
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
