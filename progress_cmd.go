package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verbski/verbski/internal/store"
)

var (
	recordCorrect bool

	goalCmd = &cobra.Command{
		Use:     "goal [N]",
		Short:   "Show or set the daily goal",
		Long:    paragraph(fmt.Sprintf("\nShow or set how many %s you want per day (%d to %d).", keyword("correct answers"), store.MinDailyGoal, store.MaxDailyGoal)),
		Example: paragraph("verbski goal\nverbski goal 10"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			var goal int
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("goal must be a number: %w", err)
				}
				if goal, err = st.SetDailyGoal(cmd.Context(), n); err != nil {
					return err
				}
			} else if goal, err = st.DailyGoal(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daily goal: %s\n", keyword(strconv.Itoa(goal)))
			return nil
		},
	}

	progressCmd = &cobra.Command{
		Use:     "progress",
		Short:   "Show today's progress toward the daily goal",
		Example: paragraph("verbski progress\nverbski progress --correct"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			ctx := cmd.Context()
			now := time.Now()
			var done int
			if recordCorrect {
				done, err = st.RecordCorrect(ctx, now)
			} else {
				done, err = st.DailyProgress(ctx, now)
			}
			if err != nil {
				return err
			}
			goal, err := st.DailyGoal(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), progressLine(done, goal))
			return nil
		},
	}
)

func init() {
	progressCmd.Flags().BoolVar(&recordCorrect, "correct", false, "record one correct answer first")
}

// progressLine renders "▰▰▰▱▱ 3/5".
func progressLine(done, goal int) string {
	filled := min(done, goal)
	bar := strings.Repeat("▰", filled) + faint(strings.Repeat("▱", goal-filled))
	line := fmt.Sprintf("%s %d/%d", bar, done, goal)
	if done >= goal {
		line += " " + keyword("goal reached")
	}
	return line
}
