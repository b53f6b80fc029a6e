package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Device selects the compute backend for inference. It is resolved once at
// startup and threaded into the classifier constructor rather than held as
// process-global state.
type Device string

const (
	DeviceAuto Device = "auto"
	DeviceCPU  Device = "cpu"
	DeviceGPU  Device = "gpu"
)

func ParseDevice(s string) (Device, error) {
	switch Device(s) {
	case DeviceAuto, DeviceCPU, DeviceGPU:
		return Device(s), nil
	default:
		return "", fmt.Errorf("unknown device %q (want auto, cpu or gpu)", s)
	}
}

// backendTarget maps the device to an OpenCV DNN backend/target pair. For
// auto and gpu the CUDA pair is requested; OpenCV falls back to CPU inference
// at runtime when no CUDA device is present.
func (d Device) backendTarget() (gocv.NetBackendType, gocv.NetTargetType) {
	if d == DeviceCPU {
		return gocv.NetBackendDefault, gocv.NetTargetCPU
	}
	return gocv.NetBackendCUDA, gocv.NetTargetCUDA
}
