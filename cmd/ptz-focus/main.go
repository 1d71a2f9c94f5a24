// ptz-focus sweeps the focus axis and leaves the lens at the sharpest
// position it found.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-ptz/internal/config"
	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/focus"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/serialline"
	"github.com/teslashibe/go-ptz/pkg/video"
)

func main() {
	videoSrc := flag.String("video", config.VideoSource(), "Video device, index or file (PTZ_VIDEO)")
	serialPort := flag.String("serial", config.SerialPort(), "PTZ controller serial port (PTZ_SERIAL)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	if err := run(*videoSrc, *serialPort); err != nil {
		log.Error("ptz-focus failed", "error", err)
		os.Exit(1)
	}
}

func run(videoSrc, serialPort string) error {
	ch := serialline.Open(serialline.DefaultOptions(serialPort), nil)
	defer ch.Close()
	cam := ptz.NewCamera(ch, nil)

	src, err := video.Open(videoSrc)
	if err != nil {
		return err
	}
	defer src.Close()
	log.Debug("video source open", "source", src.ID())

	s, err := focus.NewSearcher(focus.DefaultConfig(), cam, src, focus.LaplacianVariance, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Warn("sweep interrupted", "focus", res.Best.Focus)
		return nil
	}
	return err
}
