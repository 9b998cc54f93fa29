package cli

import (
	"fmt"
	"strings"

	"github.com/stratus-io/stratus/internal/client"
	"github.com/stratus-io/stratus/internal/config"
)

// daemonClient returns a client for the daemon API. An explicit addr wins;
// otherwise daemon.yaml decides, falling back to the settings listen
// address.
func daemonClient(addr string) (*client.Client, error) {
	if addr != "" {
		return client.New(normalizeAddr(addr)), nil
	}

	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info != nil {
		return client.New(fmt.Sprintf("http://%s:%d", info.Host, info.Port)), nil
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return client.New("http://" + settings.Server.Addr()), nil
}

// normalizeAddr turns a bare host:port into a URL.
func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}
