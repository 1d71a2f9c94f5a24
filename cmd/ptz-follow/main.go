// ptz-follow keeps the first detected person centered and framed using a
// serial-controlled pan/tilt/zoom head.
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
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/serialline"
	"github.com/teslashibe/go-ptz/pkg/tracking"
	"github.com/teslashibe/go-ptz/pkg/tracking/detection"
	"github.com/teslashibe/go-ptz/pkg/video"
	"github.com/teslashibe/go-ptz/pkg/web"
)

type options struct {
	video   string
	model   string
	serial  string
	webPort string
	debug   bool
	preview bool
	night   bool
}

func main() {
	opts := parseFlags()

	level := config.LogLevel()
	if opts.debug {
		level = "debug"
	}
	log.Init(level)

	if err := run(opts); err != nil {
		log.Error("ptz-follow failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.video, "video", config.VideoSource(), "Video device, index or file (PTZ_VIDEO)")
	flag.StringVar(&o.model, "model", config.ModelPath(), "YOLOv8 ONNX model (PTZ_MODEL)")
	flag.StringVar(&o.serial, "serial", config.SerialPort(), "PTZ controller serial port (PTZ_SERIAL)")
	flag.StringVar(&o.webPort, "web-port", config.WebPort(), "Dashboard port, empty to disable (PTZ_WEB_PORT)")
	flag.BoolVar(&o.debug, "debug", false, "Enable verbose debug logging")
	flag.BoolVar(&o.preview, "preview", true, "Show an annotated preview window (ESC quits)")
	flag.BoolVar(&o.night, "night", false, "Start in night mode instead of day mode")
	flag.Parse()
	return o
}

func run(o options) error {
	ch := serialline.Open(serialline.DefaultOptions(o.serial), nil)
	defer ch.Close()

	cam := ptz.NewCamera(ch, nil)
	cam.WakeUp()
	if o.night {
		cam.ModeNight()
	} else {
		cam.ModeDay()
	}

	src, err := video.Open(o.video)
	if err != nil {
		return err
	}
	defer src.Close()
	g := src.Geometry()
	log.Info("video source open", "source", src.ID(), "width", g.Width, "height", g.Height)

	detCfg := detection.DefaultConfig()
	detCfg.ModelPath = o.model
	det, err := detection.NewYOLO(detCfg)
	if err != nil {
		return err
	}
	defer det.Close()
	log.Debug("detector ready", "model", detCfg.ModelPath,
		"confidence", detCfg.ConfidenceThresh, "nms", detCfg.NMSThresh)

	follower, err := tracking.New(tracking.DefaultConfig(), cam, det, src, nil)
	if err != nil {
		return err
	}

	if o.preview {
		p := video.NewPreview("ptz-follow")
		defer p.Close()
		follower.SetPreview(p)
	}

	if o.webPort != "" {
		dash := web.NewServer(o.webPort, follower, ch, nil)
		dash.SetSession(follower.Session())
		ch.SetTap(dash.AddExchange)
		follower.SetObserver(dash)
		dash.StartAsync()
		defer dash.Shutdown()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("following", "session", follower.Session(), "serial", ch.State().String())
	err = follower.Run(ctx)
	log.Info("stopped", "frames", follower.Frames(), "dropped", ch.Stats().Dropped)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
