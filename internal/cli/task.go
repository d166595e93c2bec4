package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pulse-labs/pulse/internal/daemon"
	"github.com/pulse-labs/pulse/internal/domain"
)

func init() {
	taskAddCmd.Flags().IntVarP(&taskIntervals, "intervals", "i", 1, "Estimated intervals (1-20)")
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}

var taskIntervals int

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks linked to focus intervals",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	if taskIntervals < domain.MinEstimatedIntervals || taskIntervals > domain.MaxEstimatedIntervals {
		return domain.ErrInvalidEstimate
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task := domain.Task{
		ID:                 uuid.NewString(),
		AccountID:          d.Config.Account.ID,
		Title:              args[0],
		Status:             domain.TaskPending,
		EstimatedIntervals: taskIntervals,
		CreatedAt:          time.Now().UTC(),
	}
	if err := d.DB.CreateTask(task); err != nil {
		return err
	}

	fmt.Printf("Added task %s (%d interval(s))\n", task.ID, task.EstimatedIntervals)
	fmt.Printf("Link it with: pulse start --task %s\n", task.ID)
	return nil
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your tasks",
	RunE:    runTaskList,
}

func runTaskList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	tasks, err := d.DB.ListTasks(d.Config.Account.ID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks. Run 'pulse task add <title>' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tINTERVALS")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n",
			t.ID, t.Title, t.Status, t.CompletedIntervals, t.EstimatedIntervals)
	}
	return w.Flush()
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task, err := d.DB.GetTask(args[0])
	if err != nil {
		return err
	}
	if task == nil || task.AccountID != d.Config.Account.ID {
		return domain.ErrTaskNotFound
	}
	if err := d.DB.DeleteTask(task.ID); err != nil {
		return err
	}

	fmt.Printf("Removed task %s\n", task.ID)
	return nil
}
