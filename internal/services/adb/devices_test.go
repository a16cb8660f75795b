package adb

import "testing"

func TestParseDevices(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Device
	}{
		{"empty listing", []string{"List of devices attached", ""}, nil},
		{"single device", []string{"List of devices attached", "abc\tdevice"}, []Device{{"abc", "device"}}},
		{"space separated", []string{"abc    offline"}, []Device{{"abc", "offline"}}},
		{
			"no permissions",
			[]string{"abc\tno permissions (missing udev rules? user is in the plugdev group); see [http://developer.android.com/tools/device.html]"},
			[]Device{{"abc", "no permissions (missing udev rules? user is in the plugdev group); see [http://developer.android.com/tools/device.html]"}},
		},
		{"daemon chatter", []string{"* daemon started successfully", "List of devices attached"}, nil},
		{"garbage line", []string{"lonely"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDevices(tt.lines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("entry %d: got %+v want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadyDevices(t *testing.T) {
	devices := []Device{{"a", "unauthorized"}, {"b", "device"}, {"c", "offline"}, {"d", "device"}}
	ready := ReadyDevices(devices)
	if len(ready) != 2 || ready[0].Serial != "b" || ready[1].Serial != "d" {
		t.Fatalf("unexpected ready set: %+v", ready)
	}
	if ReadyDevices(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}
