package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tickerpulse/internal/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "캐시 상태 조회",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "각 artifact 의 존재 여부 표시",
	Long: `설정된 캐시 백엔드 (CACHE_BACKEND) 에서 posts / signals / historical
artifact 가 존재하는지 표시합니다. 없는 artifact 는 첫 조회 시 샘플로 채워집니다.

Example:
  go run ./cmd/pulse cache status`,
	RunE: runCacheStatus,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Cache backend: %s\n\n", a.store.Backend())

	for _, artifact := range cache.Artifacts {
		ok, err := a.store.Exists(ctx, artifact)
		switch {
		case err != nil:
			fmt.Printf("  ❌ %-11s %v\n", artifact, err)
		case ok:
			fmt.Printf("  ✅ %-11s cached\n", artifact)
		default:
			fmt.Printf("  ⚪ %-11s absent (sample on first access)\n", artifact)
		}
	}
	return nil
}
