package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pagecap/internal/preflight"
	"pagecap/internal/services/adb"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached devices and check capture readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			client, err := adb.New(cfg.Device.ADBBinary,
				adb.WithCommandTimeout(cfg.CommandTimeout()),
				adb.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cmd.Context(), cfg, client)
			if len(checks) > 0 && checks[0].Passed {
				devices, err := client.Devices(cmd.Context())
				if err != nil {
					return fmt.Errorf("list devices: %w", err)
				}
				if len(devices) == 0 {
					fmt.Fprintln(out, "No devices attached")
				} else {
					fmt.Fprintln(out, renderDeviceTable(devices))
				}
				fmt.Fprintln(out)
			}

			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d readiness check(s) failed", failed)
			}
			return nil
		},
	}
}

func renderDeviceTable(devices []adb.Device) string {
	rows := make([][]string, 0, len(devices))
	for i, device := range devices {
		rows = append(rows, []string{strconv.Itoa(i + 1), device.Serial, displayState(device.State), yesNo(device.Ready())})
	}
	return renderTable([]string{"#", "Serial", "State", "Ready"}, rows, 1)
}

var stateCaser = cases.Title(language.English)

// displayState renders adb's lowercase states for humans, e.g. "no permissions" -> "No Permissions".
func displayState(state string) string {
	state = strings.TrimSpace(state)
	if state == "" {
		return "Unknown"
	}
	if head, _, found := strings.Cut(state, " ("); found {
		state = head
	}
	return stateCaser.String(state)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
