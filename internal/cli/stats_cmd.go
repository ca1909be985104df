package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (r *runtime) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show counters collected during this run",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		counters, err := r.app.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(counters) == 0 {
			fmt.Fprintln(out, "No activity recorded yet.")
			return nil
		}
		for _, c := range counters {
			name := c.Name
			if c.Attrs != "" {
				name += "{" + c.Attrs + "}"
			}
			fmt.Fprintf(out, "%-52s %d\n", name, c.Value)
		}
		return nil
	})
	return cmd
}
