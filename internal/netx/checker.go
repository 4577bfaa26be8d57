// Package netx provides the point-in-time network availability check the
// submission pipeline consults before and between upload attempts.
package netx

import (
	"context"
	"net"
	"time"
)

// Checker reports whether a usable network path exists right now. The
// check is single-shot and honors ctx cancellation; it never blocks past
// the context deadline.
type Checker interface {
	Available(ctx context.Context) bool
}

// DialChecker probes connectivity by opening a TCP connection to a known
// endpoint (normally the upload API host). The connection is closed
// immediately; only reachability matters.
type DialChecker struct {
	Addr    string
	Timeout time.Duration
}

func NewDialChecker(addr string, timeout time.Duration) *DialChecker {
	return &DialChecker{Addr: addr, Timeout: timeout}
}

func (c *DialChecker) Available(ctx context.Context) bool {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Static is a fixed-answer Checker for tests and for kiosks deployed
// without a probe endpoint.
type Static bool

func (s Static) Available(ctx context.Context) bool { return bool(s) }
