// ptz-monitor connects to a running ptz-follow dashboard and logs every
// control cycle it reports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-ptz/internal/config"
	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/tracking"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Dashboard host:port")
	flag.Parse()
	log.Init(config.LogLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := monitor(ctx, *addr); err != nil {
		log.Error("monitor stopped", "error", err)
		os.Exit(1)
	}
}

func monitor(ctx context.Context, addr string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/status"}
	l := log.With("url", u.String())

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()
	l.Info("connected")

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	// The first message is a status snapshot; reports follow.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				l.Info("disconnected")
				return nil
			}
			return err
		}
		printMessage(l, data)
	}
}

func printMessage(l *slog.Logger, data []byte) {
	var rep tracking.Report
	if err := json.Unmarshal(data, &rep); err != nil || rep.Frame == 0 {
		l.Info("status", "raw", string(data))
		return
	}

	args := []any{"frame", rep.Frame, "detections", rep.Detections}
	if rep.Correction != nil {
		args = append(args, "pan", rep.Correction.Pan, "tilt", rep.Correction.Tilt, "zoom", rep.Correction.Zoom)
	}
	for _, c := range rep.Manual {
		args = append(args, "manual", c.String())
	}
	l.Info("cycle", args...)
}
