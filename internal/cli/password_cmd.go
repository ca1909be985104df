package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/and161185/jobboard/internal/password"
)

const meterWidth = 20

var (
	meterEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
	feedbackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// renderMeter draws the strength bar colored by level, followed by feedback lines.
func renderMeter(pw string) string {
	s := password.Score(pw)
	filled := s.Score * meterWidth / 100
	levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Level.Color())).Bold(true)

	var b strings.Builder
	b.WriteString(levelStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(meterEmptyStyle.Render(strings.Repeat("░", meterWidth-filled)))
	fmt.Fprintf(&b, " %s (%d/100)", levelStyle.Render(string(s.Level)), s.Score)
	for _, f := range s.Feedback {
		b.WriteString("\n  ")
		b.WriteString(feedbackStyle.Render("- " + f))
	}
	return b.String()
}

func (r *runtime) newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Password tools",
	}
	check := &cobra.Command{
		Use:         "check [password]",
		Short:       "Score a password and list unmet rules",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipApp: "true"},
	}
	check.RunE = r.wrap(func(cmd *cobra.Command, args []string) error {
		var pw string
		if len(args) == 1 {
			pw = args[0]
		} else {
			var err error
			if pw, err = r.prompter.Password("Password: "); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderMeter(pw))
		s := password.Score(pw)
		fmt.Fprintf(out, "entropy: %.1f bits\n", s.Entropy)
		if s.EntropyHint != "" {
			fmt.Fprintf(out, "hint: %s\n", s.EntropyHint)
		}

		v := password.Validate(pw)
		if v.IsValid {
			fmt.Fprintln(out, "meets all password requirements")
			return nil
		}
		for _, e := range v.Errors {
			fmt.Fprintf(out, "✗ %s\n", e)
		}
		return exitError(exitValidation, "%s", v.Errors[0])
	})
	cmd.AddCommand(check)
	return cmd
}
