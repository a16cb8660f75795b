package config

const (
	defaultADBBinary          = "adb"
	defaultRemotePath         = "/sdcard/screen.png"
	defaultSwipeStartX        = 800
	defaultSwipeStartY        = 500
	defaultSwipeEndX          = 200
	defaultSwipeEndY          = 500
	defaultSwipeDurationMS    = 300
	defaultCropNumerator      = 11.0
	defaultCropDenominator    = 11.5
	defaultPages              = 100
	defaultDelaySeconds       = 2.0
	defaultOutputDir          = "screenshots"
	defaultOutputDocument     = "kindle_capture.pdf"
	defaultIndexWidth         = 3
	defaultDocumentDPI        = 96
	defaultNtfyRequestTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogFile            = "~/.local/share/pagecap/pagecap.log"
)

// Error policies for the capture loop.
const (
	OnErrorStop = "stop"
	OnErrorSkip = "skip"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Device: Device{
			ADBBinary:  defaultADBBinary,
			RemotePath: defaultRemotePath,
		},
		Gesture: Gesture{
			StartX:     defaultSwipeStartX,
			StartY:     defaultSwipeStartY,
			EndX:       defaultSwipeEndX,
			EndY:       defaultSwipeEndY,
			DurationMS: defaultSwipeDurationMS,
		},
		Crop: Crop{
			RatioNumerator:   defaultCropNumerator,
			RatioDenominator: defaultCropDenominator,
		},
		Capture: Capture{
			Pages:          defaultPages,
			DelaySeconds:   defaultDelaySeconds,
			OutputDir:      defaultOutputDir,
			OutputDocument: defaultOutputDocument,
			OnError:        OnErrorStop,
			IndexWidth:     defaultIndexWidth,
		},
		Document: Document{
			DPI: defaultDocumentDPI,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Bell:           true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   defaultLogFile,
		},
	}
}
