package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDevice()
	c.normalizeCapture()
	c.normalizeNotifications()
	return c.normalizeLogging()
}

func (c *Config) normalizeDevice() {
	if value, ok := os.LookupEnv("PAGECAP_ADB"); ok && strings.TrimSpace(value) != "" {
		c.Device.ADBBinary = strings.TrimSpace(value)
	}
	c.Device.ADBBinary = strings.TrimSpace(c.Device.ADBBinary)
	if c.Device.ADBBinary == "" {
		c.Device.ADBBinary = defaultADBBinary
	}
	c.Device.Serial = strings.TrimSpace(c.Device.Serial)
	c.Device.RemotePath = strings.TrimSpace(c.Device.RemotePath)
	if c.Device.RemotePath == "" {
		c.Device.RemotePath = defaultRemotePath
	}
	if c.Device.CommandTimeout < 0 {
		c.Device.CommandTimeout = 0
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.OutputDir = strings.TrimSpace(c.Capture.OutputDir)
	if c.Capture.OutputDir == "" {
		c.Capture.OutputDir = defaultOutputDir
	}
	c.Capture.OutputDocument = strings.TrimSpace(c.Capture.OutputDocument)
	if c.Capture.OutputDocument == "" {
		c.Capture.OutputDocument = defaultOutputDocument
	}
	c.Capture.OnError = strings.ToLower(strings.TrimSpace(c.Capture.OnError))
	if c.Capture.OnError == "" {
		c.Capture.OnError = OnErrorStop
	}
	if c.Capture.IndexWidth <= 0 {
		c.Capture.IndexWidth = defaultIndexWidth
	}
	if c.Document.DPI <= 0 {
		c.Document.DPI = defaultDocumentDPI
	}
}

func (c *Config) normalizeNotifications() {
	if value, ok := os.LookupEnv("PAGECAP_NTFY_TOPIC"); ok {
		c.Notifications.NtfyTopic = value
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File == "" {
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
