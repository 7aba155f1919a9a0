// Package discovery locates the dashboard backend on the local network
// via mDNS/DNS-SD, for setups where no server URL is configured.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type the backend advertises
	ServiceType = "_arrdash._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second
)

// Server is one discovered backend.
type Server struct {
	Name string
	Host string
	IP   string
	Port int
}

// URL returns the HTTP base URL for the server.
func (s *Server) URL() string {
	host := s.IP
	if host == "" {
		host = strings.TrimSuffix(s.Host, ".")
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan discovers backends on the local network.
func (s *Scanner) Scan() ([]*Server, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext discovers backends with a custom context.
func (s *Scanner) ScanWithContext(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	servers := make([]*Server, 0)
	collected := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(collected)
		for entry := range entries {
			if server := parseServiceEntry(entry); server != nil {
				servers = append(servers, server)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-collected

	return servers, nil
}

// First returns the first backend found, or an error when none answered
// within the timeout.
func (s *Scanner) First(ctx context.Context) (*Server, error) {
	servers, err := s.ScanWithContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no dashboard server found on the local network")
	}
	return servers[0], nil
}

// parseServiceEntry converts an mDNS entry into a Server, or nil when the
// entry is unusable.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	server := &Server{
		Name: entry.Instance,
		Host: entry.HostName,
		Port: entry.Port,
	}
	if len(entry.AddrIPv4) > 0 {
		server.IP = entry.AddrIPv4[0].String()
	}
	if server.IP == "" && server.Host == "" {
		return nil
	}
	return server
}
