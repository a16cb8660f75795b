package preflight

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"pagecap/internal/deps"
	"pagecap/internal/logging"
	"pagecap/internal/services"
	"pagecap/internal/services/adb"
)

var (
	// ErrNoDevice reports that no attached device is in the "device" state.
	ErrNoDevice = errors.New("no device connected")
	// ErrSerialNotReady reports that the configured serial is absent or not ready.
	ErrSerialNotReady = errors.New("configured device not ready")
)

const stageName = "connectivity"

// DeviceLister enumerates attached devices.
type DeviceLister interface {
	Devices(ctx context.Context) ([]adb.Device, error)
}

var _ DeviceLister = (*adb.Client)(nil)

// Connection describes the device a run is bound to.
type Connection struct {
	Serial string
	Ready  []adb.Device
	All    []adb.Device
}

// RequireADB fails with an environment error when the adb binary cannot be resolved.
func RequireADB(binary string) error {
	missing := deps.Missing(deps.CheckBinaries([]deps.Requirement{deps.ADB(binary)}))
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrEnvironment, stageName, "resolve adb", missing[0].Detail, adb.ErrBinaryNotFound)
}

// Connect lists devices and selects the one to capture from. A configured
// serial must be ready; otherwise the first ready device is chosen.
func Connect(ctx context.Context, lister DeviceLister, serial string) (Connection, error) {
	devices, err := lister.Devices(ctx)
	if err != nil {
		return Connection{}, services.Wrap(services.ErrEnvironment, stageName, "", "", err)
	}
	conn := Connection{All: devices, Ready: adb.ReadyDevices(devices)}

	serial = strings.TrimSpace(serial)
	if serial != "" {
		for _, device := range conn.Ready {
			if device.Serial == serial {
				conn.Serial = serial
				return conn, nil
			}
		}
		return conn, services.Wrap(services.ErrEnvironment, stageName, "adb devices", serial, ErrSerialNotReady)
	}
	if len(conn.Ready) == 0 {
		return conn, services.Wrap(services.ErrEnvironment, stageName, "adb devices", "", ErrNoDevice)
	}
	conn.Serial = conn.Ready[0].Serial
	return conn, nil
}

// LogConnection records the selection, warning when the choice was ambiguous.
func LogConnection(logger *slog.Logger, conn Connection) {
	if logger == nil {
		return
	}
	if len(conn.Ready) > 1 {
		serials := make([]string, 0, len(conn.Ready))
		for _, device := range conn.Ready {
			serials = append(serials, device.Serial)
		}
		logger.Warn("multiple devices ready; pinning first",
			logging.String(logging.FieldSerial, conn.Serial),
			logging.String("ready", strings.Join(serials, ",")),
		)
		return
	}
	logger.Info("device connected", logging.String(logging.FieldSerial, conn.Serial))
}
