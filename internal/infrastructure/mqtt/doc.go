// Package mqtt publishes brewshell device state to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect after the first connect
//   - Retained state publishing per device
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	{prefix}/state/{device}    retained JSON state, updated after each command
//	{prefix}/command/{device}  one message per executed command
//	{prefix}/status            online/offline (LWT)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().DeviceState("tank1")
//	client.PublishRetained(topic, []byte(`{"pv":118.3}`))
package mqtt
