// Package bridge wires the tracker, encoder, upstream client, fan-out
// server, and status API into one runnable unit (spec §1, §6).
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/unklstewy/adsb2ais/internal/statusapi"
	"github.com/unklstewy/adsb2ais/pkg/aisnmea"
	"github.com/unklstewy/adsb2ais/pkg/config"
	"github.com/unklstewy/adsb2ais/pkg/fanout"
	"github.com/unklstewy/adsb2ais/pkg/tracker"
	"github.com/unklstewy/adsb2ais/pkg/upstream"
)

// Bridge owns every long-lived component of the running system and
// presents a single Run/Stop lifecycle to cmd/adsb2ais.
type Bridge struct {
	cfg    *config.Config
	logger *log.Logger

	table  *tracker.Table
	fan    *fanout.Server
	status *statusapi.Server
	client *upstream.Client

	httpServer *http.Server

	stopOnce sync.Once
}

// New constructs a Bridge from cfg but does not yet bind any sockets.
func New(cfg *config.Config, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}

	table := tracker.NewTable()
	table.Adjust = upstream.NewTimestampAdjuster(time.Now()).Adjust

	fan := fanout.NewServer(logger)

	b := &Bridge{
		cfg:    cfg,
		logger: logger,
		table:  table,
		fan:    fan,
		client: &upstream.Client{
			Addr:           net.JoinHostPort(cfg.ADSReceiverTCP.Host, strconv.Itoa(cfg.ADSReceiverTCP.Port)),
			ReconnectDelay: time.Duration(cfg.ADSReceiverTCP.ReconnectDelaySeconds * float64(time.Second)),
			Logger:         logger,
		},
	}

	if cfg.StatusHTTP.Enabled {
		b.status = statusapi.New(table, fan, cfg.StatusHTTP.AuthToken)
		b.httpServer = &http.Server{Addr: cfg.StatusHTTP.Addr, Handler: b.status}
	}

	return b
}

// Run binds the fan-out and (if enabled) status sockets, then blocks
// reading the upstream feed until ctx is canceled. Transient errors
// (malformed lines, a subscriber dropping) are logged and do not stop
// the bridge; only bind failures are fatal (spec §7).
func (b *Bridge) Run(ctx context.Context) error {
	addr := net.JoinHostPort(b.cfg.AISSenderTCP.Host, strconv.Itoa(b.cfg.AISSenderTCP.Port))
	if err := b.fan.Listen(addr); err != nil {
		return fmt.Errorf("bridge: bind AIS fan-out socket: %w", err)
	}
	b.logger.Printf("bridge: AIS fan-out listening on %s", addr)

	if b.httpServer != nil {
		ln, err := net.Listen("tcp", b.httpServer.Addr)
		if err != nil {
			return fmt.Errorf("bridge: bind status socket: %w", err)
		}
		go func() {
			if err := b.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				b.logger.Printf("bridge: status server error: %v", err)
			}
		}()
		b.logger.Printf("bridge: status API listening on %s", b.httpServer.Addr)
	}

	err := b.client.Run(ctx, b.handleLine)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bridge) handleLine(line string) {
	snapshot, complete, err := b.table.Ingest(line)
	if err != nil {
		b.logger.Printf("bridge: dropping malformed line: %v", err)
		return
	}
	if !complete {
		return
	}

	sentence, err := aisnmea.Encode(*snapshot)
	if err != nil {
		b.logger.Printf("bridge: failed to encode %s: %v", snapshot.ICAO, err)
		return
	}

	b.fan.Publish([]byte(sentence + "\n"))
	if b.status != nil {
		b.status.Publish(sentence)
	}
}

// Stop shuts down the fan-out and status sockets. It is idempotent.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.fan.Stop()
		if b.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			b.httpServer.Shutdown(ctx)
		}
	})
}
