// Package influxdb records brewshell device readings in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, batched writes and health monitoring.
//
// # Data
//
// Every command that produces a reading writes one point:
//
//	device_reading,device_id=tank1,driver=CN7500 pv=118.3,sv=65.5,running=true
//
// Relay boards write their relay states (relay_0..relay_n, on).
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteDeviceReading("tank1", "CN7500", map[string]any{"pv": 118.3}, time.Now())
//
// Writes are non-blocking and batched (batch_size, flush_interval); async
// write errors are delivered to the SetOnError callback.
package influxdb
