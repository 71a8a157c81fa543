package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/schedule"
)

const recalculateTask = "discount:recalculate"

var queueWorkersFlag int

// bazar queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer logger.Close()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		k.queue.Work(ctx, workers)
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// bazar schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the periodic tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer logger.Close()

		s := schedule.New()
		orders := services.NewOrderService(k.db, k.discounts, k.settings)
		err = s.Add(recalculateTask, k.settings.RecalculateSchedule, func(ctx context.Context) error {
			_, err := orders.RecalculateOpen(ctx)
			return err
		})
		if err != nil {
			return err
		}

		for _, t := range s.Tasks() {
			fmt.Println("  •", t)
		}
		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		return s.Run(ctx)
	},
}

// bazar discount:recalculate
var recalculateCmd = &cobra.Command{
	Use:   recalculateTask,
	Short: "Recalculate the discount of every open order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer logger.Close()

		n, err := services.NewOrderService(k.db, k.discounts, k.settings).RecalculateOpen(ctx)
		fmt.Printf("Recalculated %d orders.\n", n)
		return err
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "Number of concurrent workers")
}
