package device

import (
	"bytes"
	"context"
	"fmt"

	"github.com/harp-tech/faststepper-go/pkg/register"
)

// Version is a major.minor version pair read from the core registers.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ReadWhoAmI reads the device identity register.
func (c *Client) ReadWhoAmI(ctx context.Context) (uint16, error) {
	return Read(ctx, c, register.WhoAmI)
}

// ReadDeviceName reads the device name, cut at the first zero byte.
func (c *Client) ReadDeviceName(ctx context.Context) (string, error) {
	raw, err := ReadArray(ctx, c, register.DeviceName)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}

// WriteDeviceName sets the device name. Names longer than the register
// allows are rejected.
func (c *Client) WriteDeviceName(ctx context.Context, name string) error {
	if len(name) >= register.DeviceNameLength {
		return fmt.Errorf("device name %q: %w", name, register.ErrValueOutOfRange)
	}
	return WriteArray(ctx, c, register.DeviceName, []uint8(name))
}

// ReadFirmwareVersion reads the firmware version.
func (c *Client) ReadFirmwareVersion(ctx context.Context) (Version, error) {
	return c.readVersion(ctx, register.FirmwareVersionHigh, register.FirmwareVersionLow)
}

// ReadHardwareVersion reads the hardware version.
func (c *Client) ReadHardwareVersion(ctx context.Context) (Version, error) {
	return c.readVersion(ctx, register.HardwareVersionHigh, register.HardwareVersionLow)
}

// ReadCoreVersion reads the version of the protocol core.
func (c *Client) ReadCoreVersion(ctx context.Context) (Version, error) {
	return c.readVersion(ctx, register.CoreVersionHigh, register.CoreVersionLow)
}

func (c *Client) readVersion(ctx context.Context, high, low register.Register[uint8]) (Version, error) {
	major, err := Read(ctx, c, high)
	if err != nil {
		return Version{}, err
	}
	minor, err := Read(ctx, c, low)
	if err != nil {
		return Version{}, err
	}
	return Version{Major: major, Minor: minor}, nil
}

// ReadSerialNumber reads the device serial number.
func (c *Client) ReadSerialNumber(ctx context.Context) (uint16, error) {
	return Read(ctx, c, register.SerialNumber)
}

// ReadOperationControl reads the operation mode register.
func (c *Client) ReadOperationControl(ctx context.Context) (register.OperationControlFlags, error) {
	return Read(ctx, c, register.OperationControl)
}

// WriteOperationControl writes the operation mode register.
func (c *Client) WriteOperationControl(ctx context.Context, value register.OperationControlFlags) error {
	return Write(ctx, c, register.OperationControl, value)
}

// ResetDevice writes the reset register.
func (c *Client) ResetDevice(ctx context.Context, value register.ResetDeviceFlags) error {
	return Write(ctx, c, register.ResetDevice, value)
}
