package mqtt

import "fmt"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "brewshell"

// Topics builds brewshell MQTT topics under a configurable prefix.
//
//	topics := mqtt.Topics{Prefix: "brewery"}
//	topics.DeviceState("tank1") // "brewery/state/tank1"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// DeviceState returns the retained state topic of a device.
//
// Example: brewshell/state/tank1
func (t Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/%s", t.prefix(), deviceID)
}

// DeviceCommand returns the topic command results are announced on.
//
// Example: brewshell/command/tank1
func (t Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", t.prefix(), deviceID)
}

// Status returns the online/offline status topic.
//
// Example: brewshell/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.prefix())
}

// AllDeviceStates returns a pattern matching every device state topic.
//
// Pattern: brewshell/state/+
func (t Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/+", t.prefix())
}
