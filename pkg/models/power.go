package models

import (
	"fmt"
	"strings"
)

// PowerAction is a requested power transition.
type PowerAction string

const (
	// PowerOn is a hard power on; the VM is expected to reach ON.
	PowerOn PowerAction = "POWER_ON"
	// PowerOff cuts power immediately without guest involvement.
	PowerOff PowerAction = "POWER_OFF"
	// Shutdown asks the guest to shut down through Nutanix Guest Tools.
	// Without guest tools it may fail or have no effect; use PowerOff.
	Shutdown PowerAction = "SHUTDOWN"
	// Reboot is an ACPI restart handled by the guest OS.
	Reboot PowerAction = "REBOOT"
	// Reset is a hard power cycle.
	Reset PowerAction = "RESET"
)

// PowerActions lists every supported action.
var PowerActions = []PowerAction{PowerOn, PowerOff, Shutdown, Reboot, Reset}

// UnknownPowerActionError is returned for actions outside PowerActions.
type UnknownPowerActionError struct {
	Action string
}

func (e *UnknownPowerActionError) Error() string {
	names := make([]string, len(PowerActions))
	for i, a := range PowerActions {
		names[i] = string(a)
	}
	return fmt.Sprintf("unknown power action %q, expected one of %s", e.Action, strings.Join(names, ", "))
}

// ParsePowerAction validates a requested action. Matching is exact.
func ParsePowerAction(s string) (PowerAction, error) {
	for _, a := range PowerActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", &UnknownPowerActionError{Action: s}
}

func (a PowerAction) Valid() bool {
	_, err := ParsePowerAction(string(a))
	return err == nil
}

// PowerStateChangeRequest is the body of POST .../power-state.
type PowerStateChangeRequest struct {
	Action PowerAction `json:"action" binding:"required,power_action"`
}
