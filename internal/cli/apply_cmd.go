package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/and161185/jobboard/internal/service"
)

func (r *runtime) newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply for a job",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().String("resume", "", "resume file name")
	cmd.Flags().String("cover-letter", "", "optional cover letter")
	cmd.RunE = r.wrap(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return exitError(exitUsage, "invalid job id %q", args[0])
		}
		if _, err := r.requireUser(ctx); err != nil {
			return err
		}

		resume, _ := cmd.Flags().GetString("resume")
		cover, _ := cmd.Flags().GetString("cover-letter")
		if resume == "" {
			if resume, err = r.prompter.Line("Resume file: "); err != nil {
				return err
			}
		}

		a, err := r.app.Applications.Apply(ctx, id, service.ApplicationInput{Resume: resume, CoverLetter: cover})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Application submitted for %s at %s.\n", a.JobTitle, a.Company)
		return nil
	})
	return cmd
}

func (r *runtime) newApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List submitted applications",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().Bool("json", false, "print JSON")
	cmd.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if _, err := r.requireUser(ctx); err != nil {
			return err
		}
		apps, err := r.app.Applications.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(out, apps)
		}
		if len(apps) == 0 {
			fmt.Fprintln(out, "No applications yet.")
			return nil
		}
		for _, a := range apps {
			fmt.Fprintf(out, "%3d  %s  %s  %s\n", a.JobID, titleStyle.Render(a.JobTitle),
				labelStyle.Render(a.Company), a.AppliedAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
	return cmd
}
