package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		stats := a.store.Stats()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		fmt.Printf("📊 %d tasks\n\n", stats.Total)
		fmt.Println("By status:")
		for _, s := range models.AllStatuses {
			fmt.Printf("  %-12s %d\n", s, stats.ByStatus[s])
		}
		fmt.Println("By priority:")
		for _, p := range models.AllPriorities {
			fmt.Printf("  %-12s %d\n", p, stats.ByPriority[p])
		}
		fmt.Printf("\nCompleted today: %d\n", stats.CompletedToday)
		fmt.Printf("Overdue:         %d\n", stats.OverdueCount)

		if a.store.Variant() != store.MultiUser || a.auth.CurrentUser() == nil {
			return
		}
		fmt.Printf("\nCreated by me:   %d\n", stats.MyTasks)
		fmt.Printf("Assigned to me:  %d\n", stats.AssignedToMe)
		fmt.Printf("Watching:        %d\n", stats.Watching)
		if len(stats.ByAssignee) > 0 {
			fmt.Println("By assignee:")
			ids := make([]string, 0, len(stats.ByAssignee))
			for id := range stats.ByAssignee {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("  %-12s %d\n", a.usernameOf(id), stats.ByAssignee[id])
			}
		}
	}),
}

func init() {
	statsCmd.Flags().Bool("json", false, "JSON output")
}
