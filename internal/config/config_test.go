package config

import "testing"

func TestDefaults(t *testing.T) {
	t.Setenv("PTZ_SERIAL", "")
	t.Setenv("PTZ_VIDEO", "")
	t.Setenv("PTZ_MODEL", "")
	t.Setenv("LOG_LEVEL", "")

	if got := SerialPort(); got != DefaultSerialPort {
		t.Errorf("SerialPort: got %q, want %q", got, DefaultSerialPort)
	}
	if got := VideoSource(); got != DefaultVideoSource {
		t.Errorf("VideoSource: got %q, want %q", got, DefaultVideoSource)
	}
	if got := ModelPath(); got != DefaultModelPath {
		t.Errorf("ModelPath: got %q, want %q", got, DefaultModelPath)
	}
	if got := LogLevel(); got != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", got, DefaultLogLevel)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PTZ_SERIAL", "/dev/ttyUSB1")
	t.Setenv("PTZ_VIDEO", "2")
	t.Setenv("PTZ_WEB_PORT", "8080")

	if got := SerialPort(); got != "/dev/ttyUSB1" {
		t.Errorf("SerialPort: got %q", got)
	}
	if got := VideoSource(); got != "2" {
		t.Errorf("VideoSource: got %q", got)
	}
	if got := WebPort(); got != "8080" {
		t.Errorf("WebPort: got %q", got)
	}
}
