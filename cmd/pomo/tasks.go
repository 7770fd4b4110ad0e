package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/pomo/internal/app"
	"github.com/sandeepkv93/pomo/internal/commands"
	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/tasks"
)

func tasksCmd(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit tasks without opening the UI",
	}
	cmd.AddCommand(tasksListCmd(configDir))
	cmd.AddCommand(tasksAddCmd(configDir))
	cmd.AddCommand(tasksTargetCmd(configDir, "done", "Toggle a task's completed flag"))
	cmd.AddCommand(tasksTargetCmd(configDir, "rm", "Delete a task"))
	cmd.AddCommand(tasksFocusCmd(configDir))
	return cmd
}

func tasksListCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer closeFn()
			printTasks(registry)
			return nil
		},
	}
}

func printTasks(registry *tasks.Registry) {
	out := color.Output
	if registry.Len() == 0 {
		fmt.Fprintln(out, "no tasks")
		return
	}
	bold := color.New(color.Bold)
	done := color.New(color.Faint, color.CrossedOut)
	prio := map[model.Priority]*color.Color{
		model.PriorityHigh:   color.New(color.FgRed, color.Bold),
		model.PriorityMedium: color.New(color.FgYellow),
		model.PriorityLow:    color.New(color.FgGreen),
	}

	index := 0
	for project, list := range registry.GroupByProject() {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		tbl.Wrap = true
		fmt.Fprintln(out, bold.Sprint(project))
		for _, t := range list {
			index++
			check := "[ ]"
			title := t.Title
			if t.Completed {
				check = "[x]"
				title = done.Sprint(title)
			}
			tbl.AddRow(fmt.Sprintf("%d", index), check, title, prio[t.Priority].Sprint(t.Priority), shortID(t.ID))
		}
		tbl.RightAlign(0)
		fmt.Fprintln(out, tbl)
		fmt.Fprintln(out)
	}
	if registry.AllCompleted() {
		fmt.Fprintln(out, color.GreenString(app.MsgAllTasksCompleted))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func tasksAddCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [!high|!medium|!low] [#project] [-- note]",
		Short: "Add a task",
		Example: `
pomo tasks add Write report !high #Work
pomo tasks add Call mum #Home -- about the weekend
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			// cobra swallows the "--" separator, so put the note back.
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				input = strings.Join(args[:dash], " ") + " -- " + strings.Join(args[dash:], " ")
			}
			parsed, err := commands.Parse("add " + input)
			if err != nil {
				return err
			}
			registry, closeFn, err := openRegistry(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer closeFn()
			a := parsed.Add
			task, err := registry.Add(cmd.Context(), a.Title, a.Priority, a.Note, a.Project)
			if err != nil {
				return err
			}
			fmt.Fprintf(color.Output, "added %s to %s\n", task.Label(), task.Project)
			return nil
		},
	}
}

func tasksTargetCmd(configDir *string, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <n|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer closeFn()
			task, ok := registry.Resolve(args[0])
			if !ok {
				return fmt.Errorf("no task matches %q", args[0])
			}
			switch verb {
			case "done":
				allDone := false
				registry.OnAllCompleted(func(tasks.AllCompleted) { allDone = true })
				if err := registry.ToggleComplete(cmd.Context(), task.ID); err != nil {
					return err
				}
				if task.Completed {
					fmt.Fprintf(color.Output, "reopened %s\n", task.Title)
				} else {
					fmt.Fprintln(color.Output, app.TaskFinishedMessage(task.Title))
				}
				if allDone {
					fmt.Fprintln(color.Output, color.GreenString(app.MsgAllTasksCompleted))
				}
			case "rm":
				if err := registry.Remove(cmd.Context(), task.ID); err != nil {
					return err
				}
				fmt.Fprintf(color.Output, "deleted %s\n", task.Title)
			}
			return nil
		},
	}
}

// tasksFocusCmd opens the UI with a task prioritized. Activation lives only
// for the UI session, so there is nothing to change on disk.
func tasksFocusCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "focus <n|id>",
		Short: "Open the UI with a task prioritized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), *configDir, args[0])
		},
	}
}
