// Package upstream dials the SBS/BaseStation feed and hands complete
// text lines to a caller-supplied handler, reconnecting forever on
// failure (spec §4.1).
package upstream

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

// Client is a reconnecting TCP line reader. Unlike a typical retry
// helper, it never gives up and never backs off exponentially: the
// upstream feed is expected to come and go, and a constant delay is
// what operators of this bridge actually want (spec §4.1, §9).
type Client struct {
	Addr           string
	ReconnectDelay time.Duration
	Logger         *log.Logger
}

// Run dials Addr and calls handle with every non-empty line received,
// until ctx is canceled. A connection failure or a clean EOF both
// trigger a wait of ReconnectDelay (interruptible by ctx) followed by
// another dial attempt; Run only returns once ctx is done.
func (c *Client) Run(ctx context.Context, handle func(line string)) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", c.Addr)
		if err != nil {
			c.logf("connect to %s failed: %v", c.Addr, err)
			if !c.sleepOrDone(ctx) {
				return ctx.Err()
			}
			continue
		}

		c.logf("connected to %s", c.Addr)
		c.readLines(ctx, conn, handle)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logf("disconnected from %s, reconnecting in %s", c.Addr, c.ReconnectDelay)
		if !c.sleepOrDone(ctx) {
			return ctx.Err()
		}
	}
}

func (c *Client) readLines(ctx context.Context, conn net.Conn, handle func(line string)) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(scanner.Text(), "�"))
		if line == "" {
			continue
		}
		handle(line)
	}
}

func (c *Client) sleepOrDone(ctx context.Context) bool {
	delay := c.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Println(fmt.Sprintf(format, args...))
}
