package sdk

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"
)

const defaultSuggestedPort = 8080

// PortFinder helps local apps pick a listen port without colliding with
// other apps running on the same machine. The main app suggests a port via
// RTX_PORT; the finder verifies availability before handing it out.
type PortFinder struct {
	DefaultPort int
}

// SuggestedPort returns the port from RTX_PORT, or the default.
func (p *PortFinder) SuggestedPort() int {
	if raw := os.Getenv(envPort); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			return port
		}
	}
	if p.DefaultPort > 0 {
		return p.DefaultPort
	}
	return defaultSuggestedPort
}

// IsAvailable reports whether the port can be bound on IPv4 loopback, the
// IPv4 wildcard, and IPv6 loopback (when the host supports IPv6).
func (p *PortFinder) IsAvailable(port int) bool {
	if !bindable("tcp4", "127.0.0.1", port) {
		return false
	}
	if !bindable("tcp4", "0.0.0.0", port) {
		return false
	}
	// IPv6 may be unsupported; only a bind refusal on a working stack
	// disqualifies the port.
	ln, err := net.Listen("tcp6", net.JoinHostPort("::1", strconv.Itoa(port)))
	if err == nil {
		//nolint:errcheck // probe listener, nothing to handle
		_ = ln.Close()
	} else if errors.Is(err, syscall.EADDRINUSE) {
		return false
	}
	return true
}

// FindAvailable scans up to maxAttempts ports starting at startPort and
// returns the first available one.
func (p *PortFinder) FindAvailable(startPort, maxAttempts int) (int, error) {
	if startPort <= 0 {
		startPort = p.SuggestedPort()
	}
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	for i := 0; i < maxAttempts; i++ {
		if p.IsAvailable(startPort + i) {
			return startPort + i, nil
		}
	}
	return 0, fmt.Errorf("no available port found in range %d-%d", startPort, startPort+maxAttempts-1)
}

// Port returns a ready-to-use port: the suggested one when free, otherwise
// the next available. This is the recommended entry point.
func (p *PortFinder) Port() (int, error) {
	suggested := p.SuggestedPort()
	if p.IsAvailable(suggested) {
		return suggested, nil
	}
	return p.FindAvailable(suggested+1, 100)
}

func bindable(network, host string, port int) bool {
	ln, err := net.Listen(network, net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	//nolint:errcheck // probe listener, nothing to handle
	_ = ln.Close()
	return true
}

