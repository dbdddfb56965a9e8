package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "캐시 관리",
	Long: `스크리너 캐시(목록 + 시세)를 관리합니다.

Subcommands:
  clear   - 캐시 비우기 (다음 실행은 새로 조회)

memory 백엔드의 캐시는 각 프로세스 안에만 있으므로
실행 중인 API 서버의 캐시는 DELETE /api/cache 로 비웁니다.

Example:
  CACHE_BACKEND=redis go run ./cmd/screener cache clear`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "캐시 비우기",
	Args:  cobra.NoArgs,
	RunE:  clearCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func clearCache(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.memory != nil {
		PrintWarning("CACHE_BACKEND=memory: nothing is shared with other processes; use DELETE /api/cache on a running server")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := a.purger.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Removed %d cached entries", n))
	return nil
}
