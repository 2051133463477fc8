package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "del REF",
	Aliases: []string{"delete", "rm"},
	Short:   "Delete tasks",
	Long: `Deletes every task matching REF (an id prefix or the full title, both
case-insensitive). When REF matches more than one task and stdin is a
terminal, confirmation is asked for; use --yes to skip it. A REF that matches
nothing is reported and leaves the list as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ref := args[0]
	if err := task.ValidateRef(ref); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.store()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		ok, err := confirmMultiDelete(store.All(), ref)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	removed, err := store.Del(ref)
	if err != nil {
		return fmt.Errorf("deleting tasks: %w", err)
	}
	if len(removed) == 0 {
		return reportNotFound(ref)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":  "deleted",
			"count":   len(removed),
			"deleted": removed,
		})
	}
	for _, t := range removed {
		output.Messagef(os.Stdout, "Deleted %s: %s", t.ShortID(), t.Title)
	}
	return nil
}

var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// confirmMultiDelete asks before removing several tasks at once. A single
// match needs no confirmation.
func confirmMultiDelete(tasks []task.Task, ref string) (bool, error) {
	var matches []task.Task
	for _, t := range tasks {
		if t.Matches(ref) {
			matches = append(matches, t)
		}
	}
	if len(matches) <= 1 {
		return true, nil
	}

	// Scripts get no prompt.
	if !stdinIsTerminal() {
		return true, nil
	}

	fmt.Fprintf(os.Stderr, "%q matches %d tasks:\n", ref, len(matches))
	for _, t := range matches {
		fmt.Fprintf(os.Stderr, "  %s %s\n", t.ShortID(), t.Title)
	}
	fmt.Fprint(os.Stderr, "Delete all of them? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
