package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docktop/internal/history"
)

// historyCommand lists previously executed commands from the local
// history database.
func (m *Manager) historyCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			actions, err := store.Actions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded actions.")
				return nil
			}

			for _, a := range actions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-13s %-30s %s\n",
					a.CreatedAt.Format("2006-01-02 15:04:05"), a.Kind, a.Detail, a.Result)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of actions to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of actions to skip")
	return cmd
}
