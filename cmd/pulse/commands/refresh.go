package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "리소스 즉시 갱신",
	Long: `API 의 ?refresh=true 와 같은 경로로 리소스를 다시 계산해 캐시에 씁니다.

Subcommands:
  posts    - 피드에서 포스트 수집 (결과가 비면 기존 캐시 유지)
  signals  - 캐시된 포스트로 시그널 재계산 (빈 결과도 캐시에 기록)

Example:
  go run ./cmd/pulse refresh posts
  go run ./cmd/pulse refresh signals`,
}

var (
	refreshPostsCmd = &cobra.Command{
		Use:   "posts",
		Short: "포스트 갱신",
		RunE:  runRefreshPosts,
	}

	refreshSignalsCmd = &cobra.Command{
		Use:   "signals",
		Short: "시그널 갱신",
		RunE:  runRefreshSignals,
	}
)

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.AddCommand(refreshPostsCmd)
	refreshCmd.AddCommand(refreshSignalsCmd)
}

func runRefreshPosts(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	orch, err := a.orchestrator(nil)
	if err != nil {
		return err
	}

	posts, err := orch.Posts(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh posts: %w", err)
	}

	if len(posts) == 0 {
		fmt.Println("⚠️  No posts fetched, cache left unchanged")
		return nil
	}

	fmt.Printf("✅ %d posts cached (%s)\n", len(posts), a.store.Backend())
	for _, p := range posts {
		fmt.Printf("  %s  [%s] %s\n", p.Timestamp.Format("2006-01-02 15:04"), p.Source, truncate(p.Content, 80))
	}
	return nil
}

func runRefreshSignals(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	orch, err := a.orchestrator(nil)
	if err != nil {
		return err
	}

	set, err := orch.Signals(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh signals: %w", err)
	}

	fmt.Printf("✅ %d industry signals, %d stock signals cached (%s)\n",
		len(set.IndustrySignals), len(set.StockSignals), a.store.Backend())
	for _, s := range set.IndustrySignals {
		fmt.Printf("  %-20s %-8s %.2f  %v\n", s.Industry, s.SignalType, s.Strength, s.RelatedStocks)
	}
	return nil
}

// openApp bootstraps config, logger and the cache store for one-shot commands
func openApp(cmd *cobra.Command) (*app, context.Context, error) {
	a, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, ctx, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
