package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for taskman",
	Long:  `Display detailed help for all taskman commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
taskman - tasks, filters, stats and time tracking

GLOBAL FLAGS:
  --data-dir              Where taskman.db, config.yaml and logs live (~/.taskman)
  --storage               sqlite (default), memory or redis
  --variant               single (default) or multi
  --policy                Filter policy: first-match (default) or all
  --user, --password      Sign in for one command (multi variant)

TASKS:

  add <task>              Create a new task with smart parsing
    -i, --interactive     Open the form
    -d, --desc            Description
    -t, --tags            Comma-separated tags
    --priority            low|medium|high|urgent
    --due                 Due date (dd/mm/yyyy, today, 3days, 2weeks)
    --estimate            Estimated minutes

    Smart syntax:
      #tags         Tags
      +priority     Priority
      @user         Assignee (multi variant)
      due:3days     Due date
      ~90m          Estimate

    Example:
      taskman add "Fix login bug #frontend +high due:2days ~1h"

  ls                      List tasks
    --status --priority --search --from --to --tags
    --sort                due|priority|created
    -i                    Interactive list
    --json                JSON output

    Interactive keys:
      ↑/↓           Navigate tasks
      ←/→           Page
      /             Search
      f             Cycle sort
      d             Mark done/undone
      enter         Select and show
      esc/q         Quit

  show <id>               Task details, sessions and comments
  edit <id>               Edit in the form, or only the fields given as flags
  done <id>               Mark task as completed
  undone <id>             Mark task as todo
  rm <id>                 Delete a task
  stats                   Totals by status and priority, overdue, done today

  Ids can be shortened to any unique prefix.

TIME:

  start <id>              Start tracking time (timer UI, --no-ui to skip)
  stop                    Stop the session and add its minutes to the task
  pause                   Same as stop, start again to resume
  status                  Show the running session
  log <id> <minutes>      Add time manually (45 or 1h30m)
  report                  Weekly timesheet (--week -1 for last week)

TEAM (multi variant):

  login <user>            Sign in (demo users: admin, alice, bob / "password")
  register <user>         Create an account (--email, --name)
  logout                  Sign out
  whoami                  Show the signed-in user
  teams                   List your teams
  teams create <name>     Create a team
  comment <id> <text>     Comment on a task

  version                 Print version information
`)
}
