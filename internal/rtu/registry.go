package rtu

import "fmt"

// Registry is the read-only index of configured devices.
//
// It is built once at startup and never modified afterwards, so it needs
// no locking and is safe for concurrent reads.
type Registry struct {
	devices []Device
	byID    map[string]int
}

// NewRegistry builds a registry from devices, preserving their order.
// Duplicate ids are rejected.
func NewRegistry(devices []Device) (*Registry, error) {
	r := &Registry{
		devices: make([]Device, len(devices)),
		byID:    make(map[string]int, len(devices)),
	}
	copy(r.devices, devices)

	for i, d := range r.devices {
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, d.ID)
		}
		r.byID[d.ID] = i
	}
	return r, nil
}

// FromRTU builds a registry from a loaded RTU conf.
func FromRTU(r *RTU) (*Registry, error) {
	return NewRegistry(r.Devices)
}

// Resolve looks up a device by id. An absent id is not an error:
// "unknown command" is an ordinary shell outcome.
func (r *Registry) Resolve(id string) (Device, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Device{}, false
	}
	return r.devices[i], true
}

// Devices returns all devices in configuration order.
// The returned slice is a copy.
func (r *Registry) Devices() []Device {
	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len returns the number of configured devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// Kinds returns the number of devices per driver kind.
func (r *Registry) Kinds() map[DriverKind]int {
	counts := make(map[DriverKind]int)
	for _, d := range r.devices {
		counts[d.Kind]++
	}
	return counts
}
