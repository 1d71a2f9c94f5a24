// Package config provides configuration helpers for go-ptz commands.
package config

import (
	"os"
)

// Default launcher configuration.
const (
	DefaultSerialPort  = "/dev/ttyACM0"
	DefaultVideoSource = "/dev/video0"
	DefaultModelPath   = "models/yolov8n.onnx"
	DefaultLogLevel    = "info"
)

// env returns the value of key, or def when unset or empty.
func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SerialPort returns the controller serial port from PTZ_SERIAL.
func SerialPort() string {
	return env("PTZ_SERIAL", DefaultSerialPort)
}

// VideoSource returns the camera device or file from PTZ_VIDEO.
func VideoSource() string {
	return env("PTZ_VIDEO", DefaultVideoSource)
}

// ModelPath returns the detection model path from PTZ_MODEL.
func ModelPath() string {
	return env("PTZ_MODEL", DefaultModelPath)
}

// WebPort returns the dashboard port from PTZ_WEB_PORT.
// Empty means the dashboard is disabled.
func WebPort() string {
	return os.Getenv("PTZ_WEB_PORT")
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	return env("LOG_LEVEL", DefaultLogLevel)
}
