package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tickerpulse/internal/scheduler"
	"github.com/wonny/tickerpulse/internal/scheduler/jobs"
)

// refreshJobTimeout bounds one scheduled refresh
const refreshJobTimeout = 5 * time.Minute

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `REFRESH_SCHEDULE (cron) 에 따라 posts → signals refresh 를 실행합니다.
API 요청 경로에는 TTL 이 없으며, 스케줄러도 명시적 refresh 만 호출합니다.

Subcommands:
  start   - 스케줄러 시작
  run     - refresh 작업 즉시 실행

Example:
  REFRESH_SCHEDULE="@every 30m" go run ./cmd/pulse scheduler start
  go run ./cmd/pulse scheduler run`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run",
		Short: "refresh 작업 즉시 실행",
		RunE:  runSchedulerJob,
	}

	scheduleExpr string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&scheduleExpr, "schedule", "", "cron 표현식 (default: REFRESH_SCHEDULE)")
}

// newScheduler registers the refresh job on schedule
func newScheduler(a *app, r jobs.Refresher, schedule string) (*scheduler.Scheduler, error) {
	if schedule == "" {
		return nil, fmt.Errorf("REFRESH_SCHEDULE is not set")
	}

	sched := scheduler.New(a.log, refreshJobTimeout)
	if err := sched.AddJob(jobs.NewRefreshJob(r, schedule, a.log)); err != nil {
		return nil, err
	}
	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerpulse Scheduler ===")

	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	orch, err := a.orchestrator(nil)
	if err != nil {
		return err
	}

	schedule := a.cfg.RefreshSchedule
	if scheduleExpr != "" {
		schedule = scheduleExpr
	}

	sched, err := newScheduler(a, orch, schedule)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s (%s)\n", jobName, schedule)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	printStats(sched)

	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	orch, err := a.orchestrator(nil)
	if err != nil {
		return err
	}

	// Immediate runs do not need a cron expression of their own
	sched, err := newScheduler(a, orch, "@every 1h")
	if err != nil {
		return err
	}

	result, err := sched.RunJob(ctx, "refresh")
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("refresh job failed after %s: %s", result.Duration, result.Error)
	}

	fmt.Printf("✅ refresh completed in %s\n", result.Duration.Round(time.Millisecond))
	return nil
}

func printStats(sched *scheduler.Scheduler) {
	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
	}
}
