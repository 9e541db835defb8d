package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tickerpulse/internal/api"
	"github.com/wonny/tickerpulse/internal/proxy"
	"github.com/wonny/tickerpulse/pkg/httputil"
)

// proxyCmd represents the proxy command
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "리버스 프록시 시작",
	Long: `PROXY_PORT 에서 받은 GET/POST 요청을 PROXY_TARGET (API 서버) 로
그대로 전달합니다. 업스트림 연결 실패 시 500 "Error forwarding request" 를 반환합니다.

Example:
  go run ./cmd/pulse proxy
  go run ./cmd/pulse proxy --port 8080 --target http://localhost:5001`,
	RunE: runProxy,
}

var (
	proxyPort   string
	proxyTarget string
)

func init() {
	rootCmd.AddCommand(proxyCmd)

	proxyCmd.Flags().StringVar(&proxyPort, "port", "", "프록시 포트 (default: PROXY_PORT)")
	proxyCmd.Flags().StringVar(&proxyTarget, "target", "", "업스트림 API 주소 (default: PROXY_TARGET)")
}

func runProxy(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerpulse Proxy ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if proxyPort != "" {
		a.cfg.Proxy.Port = proxyPort
	}
	if proxyTarget != "" {
		a.cfg.Proxy.Target = proxyTarget
	}

	// Relay uses the shared timeout; retries are disabled by the relay itself
	client := httputil.New(a.cfg.Fetch, a.log).WithRateLimit(0)
	relay, err := proxy.NewRelay(a.cfg.Proxy.Target, client, a.log)
	if err != nil {
		return err
	}

	server := api.New("proxy", a.cfg.Proxy.Port, a.log, relay)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Proxy running on http://localhost:%s\n", a.cfg.Proxy.Port)
	fmt.Printf("Forwarding requests to %s\n", a.cfg.Proxy.Target)
	fmt.Println("\nPress Ctrl+C to stop")

	return waitAndShutdown(server, errCh, a)
}
