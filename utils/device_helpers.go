package utils

import (
	"errors"

	"github.com/notargets/gocca"
)

// CreateTestDevice returns an OCCA device for verification runs,
// preferring parallel backends and falling back to Serial. Callers (and
// tests) should treat an error as "no OCCA runtime here" and skip.
func CreateTestDevice() (*gocca.OCCADevice, error) {
	backends := []string{
		`{"mode": "OpenMP"}`,
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "Serial"}`,
	}

	for _, props := range backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			return device, nil
		}
	}
	return nil, errors.New("no OCCA backend available")
}
