package adb

import "strings"

// StateDevice is the adb state of an authorized, online device.
const StateDevice = "device"

// Device is one entry of `adb devices`.
type Device struct {
	Serial string
	State  string
}

// Ready reports whether the device accepts commands. Unauthorized, offline,
// and permission-less entries are listed by adb but cannot capture.
func (d Device) Ready() bool {
	return d.State == StateDevice
}

// ParseDevices parses `adb devices` output. The header, daemon start-up
// chatter, and blank lines are skipped.
func ParseDevices(lines []string) []Device {
	var devices []Device
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		serial, state, ok := strings.Cut(line, "\t")
		if !ok {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			serial, state = fields[0], strings.Join(fields[1:], " ")
		}
		devices = append(devices, Device{
			Serial: strings.TrimSpace(serial),
			State:  strings.TrimSpace(state),
		})
	}
	return devices
}

// ReadyDevices filters devices down to those in the device state.
func ReadyDevices(devices []Device) []Device {
	var ready []Device
	for _, d := range devices {
		if d.Ready() {
			ready = append(ready, d)
		}
	}
	return ready
}
