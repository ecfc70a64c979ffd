package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xeij/tellme/internal/update"
	"github.com/xeij/tellme/pkg/tellme/content"
)

// fullyReadThreshold separates a glance from an actual read: advancing
// before it counts as a skip even on Enter.
const fullyReadThreshold = 3 * time.Second

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read texts in the terminal, one at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if info, ok := update.NewChecker(Version).Quick(ctx); ok {
			fmt.Fprintln(out, info.Notice())
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, "Enter: next   s: skip   q: quit")
		fmt.Fprintln(out)

		in := bufio.NewScanner(os.Stdin)
		for {
			unit, ok, err := svc.Next(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No content yet. Run `tellme fetch` first.")
				return nil
			}

			fmt.Fprintf(out, "[%s] %s\n\n", unit.Topic.DisplayName(), unit.Title)
			fmt.Fprintln(out, unit.Body)
			fmt.Fprintf(out, "\n%s\n\n> ", unit.SourceURL)

			shown := time.Now()
			if !in.Scan() {
				return in.Err()
			}
			elapsed := time.Since(shown)

			switch strings.TrimSpace(strings.ToLower(in.Text())) {
			case "q", "quit":
				return svc.Record(ctx, content.Skipped(unit.ID, elapsed))
			case "s", "skip":
				if err := svc.Record(ctx, content.Skipped(unit.ID, elapsed)); err != nil {
					return err
				}
			default:
				interaction := content.Skipped(unit.ID, elapsed)
				if elapsed >= fullyReadThreshold {
					interaction = content.FullyRead(unit.ID, elapsed)
				}
				if err := svc.Record(ctx, interaction); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintln(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
