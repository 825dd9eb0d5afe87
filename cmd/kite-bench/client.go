package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/kite/internal/live"
)

type benchCounters struct {
	clicksSent     atomic.Uint64
	clicksComplete atomic.Uint64
	renderFrames   atomic.Uint64
	renderBytes    atomic.Uint64
}

type benchErrors struct {
	dialFailures      atomic.Uint64
	clickWriteFailure atomic.Uint64
	frameDecode       atomic.Uint64
	serverErrorFrames atomic.Uint64
	refreshMissing    atomic.Uint64
	totalErrors       atomic.Uint64
}

var buttonPattern = regexp.MustCompile(`<button([^>]*)>Refresh</button>`)
var kidPattern = regexp.MustCompile(`data-kid="(\d+)"`)

// refreshButton finds the Refresh button in a render frame. It reports the
// element ID and whether the button is enabled.
func refreshButton(html string) (id uint64, enabled, ok bool) {
	m := buttonPattern.FindStringSubmatch(html)
	if m == nil {
		return 0, false, false
	}
	attrs := m[1]
	k := kidPattern.FindStringSubmatch(attrs)
	if k == nil {
		return 0, false, false
	}
	id, err := strconv.ParseUint(k[1], 10, 64)
	if err != nil {
		return 0, false, false
	}
	enabled = !strings.Contains(" "+attrs+" ", " disabled ")
	return id, enabled, true
}

func runClient(
	ctx context.Context,
	wsURL string,
	cfg benchConfig,
	counters *benchCounters,
	errCounts *benchErrors,
	samples chan<- time.Duration,
) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		errCounts.dialFailures.Add(1)
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	period := time.Duration(float64(time.Second) / cfg.RPS)

	// The first fetch runs on mount; wait for it like any other.
	conn.SetReadDeadline(time.Now().Add(cfg.EventTimeout))
	id, html, err := waitForEnabled(ctx, conn, counters, errCounts)
	if err != nil {
		return ignoreDone(ctx, err, errCounts)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		if err := conn.WriteJSON(live.ClientMessage{Type: live.TypeClick, ID: id}); err != nil {
			errCounts.clickWriteFailure.Add(1)
			return fmt.Errorf("click write: %w", err)
		}
		counters.clicksSent.Add(1)

		conn.SetReadDeadline(time.Now().Add(cfg.EventTimeout))
		id, html, err = waitForRefresh(ctx, conn, html, counters, errCounts)
		if err != nil {
			return ignoreDone(ctx, err, errCounts)
		}

		rtt := time.Since(start)
		counters.clicksComplete.Add(1)
		samples <- rtt

		if sleep := period - time.Since(start); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

func ignoreDone(ctx context.Context, err error, errCounts *benchErrors) error {
	if ctx.Err() != nil {
		return nil
	}
	if isTimeout(err) {
		errCounts.refreshMissing.Add(1)
		return fmt.Errorf("refresh not observed")
	}
	return err
}

// waitForEnabled reads frames until the Refresh button is enabled.
func waitForEnabled(ctx context.Context, conn *websocket.Conn, counters *benchCounters, errCounts *benchErrors) (uint64, string, error) {
	for {
		html, err := readRender(ctx, conn, counters, errCounts)
		if err != nil {
			return 0, "", err
		}
		if id, enabled, ok := refreshButton(html); ok && enabled {
			return id, html, nil
		}
	}
}

// waitForRefresh reads frames until the refresh caused by a click is
// over: the button went disabled and came back, or the page changed to a
// new quote with the button enabled. Snapshots coalesce, so the disabled
// frame may never arrive.
func waitForRefresh(ctx context.Context, conn *websocket.Conn, prev string, counters *benchCounters, errCounts *benchErrors) (uint64, string, error) {
	sawDisabled := false
	for {
		html, err := readRender(ctx, conn, counters, errCounts)
		if err != nil {
			return 0, "", err
		}
		id, enabled, ok := refreshButton(html)
		switch {
		case !ok:
		case !enabled:
			sawDisabled = true
		case sawDisabled || html != prev:
			return id, html, nil
		}
	}
}

func readRender(ctx context.Context, conn *websocket.Conn, counters *benchCounters, errCounts *benchErrors) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return "", err
		}
		var m live.ServerMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			errCounts.frameDecode.Add(1)
			return "", err
		}
		switch m.Type {
		case live.TypeRender:
			counters.renderFrames.Add(1)
			counters.renderBytes.Add(uint64(len(msg)))
			return m.HTML, nil
		case live.TypeError:
			errCounts.serverErrorFrames.Add(1)
			return "", errors.New("server error frame: " + m.Error)
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
