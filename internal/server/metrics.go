package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/arl/statsviz"
)

// newMetricsServer 在独立端口提供 statsviz 运行时面板
func newMetricsServer(addr string) (*http.Server, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, fmt.Errorf("注册 statsviz 失败: %w", err)
	}
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
