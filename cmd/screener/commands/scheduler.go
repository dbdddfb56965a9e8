package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/superinvestor/internal/scheduler"
	"github.com/wonny/superinvestor/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler list
  go run ./cmd/screener scheduler run screener_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- screener_refresh: 매시 정각 (REFRESH_SCHEDULE, 캐시를 다시 받아 TTL 갱신)
- cache_cleanup: 5분마다 (만료된 캐시 정리, memory 백엔드만)

갱신 결과를 run / api 프로세스와 공유하려면 CACHE_BACKEND=redis 를 사용하세요.
memory 백엔드에서는 "api --with-scheduler" 로 같은 프로세스에서 실행합니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/screener scheduler start --disable cache_cleanup`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var schedulerDisabled []string

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().StringSliceVar(&schedulerDisabled, "disable", nil, "등록하지 않을 작업 이름 (comma separated)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if err := disableJobs(sched, schedulerDisabled); err != nil {
		return err
	}

	if a.memory != nil {
		PrintWarning("CACHE_BACKEND=memory: refreshed entries stay in this process and no other command reads them")
		a.log.Warn("Scheduler started with in-process cache; use redis or 'api --with-scheduler' to share it")
	}

	sched.Start()

	PrintHeader("Screener Scheduler")
	PrintSuccess("Scheduler started successfully")
	fmt.Fprintln(statusOut, "\nRegistered jobs:")
	PrintList(sched.GetAllJobs())
	fmt.Fprintln(statusOut, "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Fprintln(statusOut, "\nShutting down scheduler...")
	sched.Stop()

	stats := sched.GetJobStats()
	for _, name := range sched.GetAllJobs() {
		stat := stats[name]
		PrintKeyValue(name, fmt.Sprintf("%d runs, %d failed (%.1f%% success)",
			stat.TotalRuns, stat.FailureCount, stat.SuccessRate*100), 16)
	}

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()
	fmt.Fprintln(statusOut, "Registered jobs:")
	for _, name := range sched.GetAllJobs() {
		PrintKeyValue(name, stats[name].Schedule, 16)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	PrintInfo(fmt.Sprintf("Running job: %s", jobName))

	result, err := sched.RunJobAndWait(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %.2fs: %s", jobName, result.Duration.Seconds(), result.Error))
		return &reportedError{err: fmt.Errorf("job %s failed", jobName)}
	}

	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", jobName, result.Duration.Seconds()))
	return nil
}

// disableJobs unschedules the named jobs
func disableJobs(sched *scheduler.Scheduler, names []string) error {
	for _, name := range names {
		if err := sched.RemoveJob(name); err != nil {
			return fmt.Errorf("disable job: %w", err)
		}
	}
	return nil
}

// newScheduler registers the screener jobs against a's pipeline and cache
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewScreenerRefreshJob(a.pipeline, a.cfg.Screener.RefreshSchedule, a.log)); err != nil {
		return nil, err
	}

	// Redis expires keys by itself
	if a.memory != nil {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(a.memory, a.log)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}
