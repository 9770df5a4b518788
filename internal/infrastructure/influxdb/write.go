package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementDeviceReading is the measurement device readings are written to.
const MeasurementDeviceReading = "device_reading"

// NewReadingPoint builds a device_reading point. Values that are not bool,
// int or float64 are dropped; nil is returned if no field is left.
func NewReadingPoint(deviceID, driver string, values map[string]any, at time.Time) *write.Point {
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case bool, float64:
			fields[k] = val
		case int:
			fields[k] = int64(val)
		case int64:
			fields[k] = val
		}
	}
	if len(fields) == 0 {
		return nil
	}

	return write.NewPoint(
		MeasurementDeviceReading,
		map[string]string{
			"device_id": deviceID,
			"driver":    driver,
		},
		fields,
		at,
	)
}

// WriteDeviceReading writes the readings of one command.
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteDeviceReading(deviceID, driver string, values map[string]any, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := NewReadingPoint(deviceID, driver, values, at)
	if point == nil {
		return
	}
	c.writeAPI.WritePoint(point)
}
