package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatrelay-ai/chatrelay/internal/config"
	"github.com/chatrelay-ai/chatrelay/internal/costs"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Print token usage and estimated spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tracker := costs.New(cfg.UsagePath())
			spend, err := tracker.Spend(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "today: %d tokens ($%.4f)\n", spend.TodayTokens, spend.TodayUSD)
			fmt.Fprintf(out, "month: %d tokens ($%.4f) across %d requests\n", spend.MonthTokens, spend.MonthUSD, spend.RecordsMonth)
			return nil
		},
	}
}
