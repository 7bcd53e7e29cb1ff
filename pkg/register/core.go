package register

// Core register addresses, shared by every Harp device.
const (
	AddressWhoAmI                uint8 = 0
	AddressHardwareVersionHigh   uint8 = 1
	AddressHardwareVersionLow    uint8 = 2
	AddressAssemblyVersion       uint8 = 3
	AddressCoreVersionHigh       uint8 = 4
	AddressCoreVersionLow        uint8 = 5
	AddressFirmwareVersionHigh   uint8 = 6
	AddressFirmwareVersionLow    uint8 = 7
	AddressTimestampSeconds      uint8 = 8
	AddressTimestampMicroseconds uint8 = 9
	AddressOperationControl      uint8 = 10
	AddressResetDevice           uint8 = 11
	AddressDeviceName            uint8 = 12
	AddressSerialNumber          uint8 = 13
)

// DeviceNameLength is the size of the DeviceName register in bytes.
const DeviceNameLength = 25

// OperationControlFlags configures the device operation mode.
type OperationControlFlags uint8

const (
	OperationControlNone             OperationControlFlags = 0x0
	OperationControlActive           OperationControlFlags = 0x1
	OperationControlSpeed            OperationControlFlags = 0x2
	OperationControlDumpRegisters    OperationControlFlags = 0x8
	OperationControlMuteReplies      OperationControlFlags = 0x10
	OperationControlVisualIndicators OperationControlFlags = 0x20
	OperationControlOperationLED     OperationControlFlags = 0x40
	OperationControlHeartbeat        OperationControlFlags = 0x80
)

var operationControlBits = []Bit{
	{Name: "Active", Mask: 0x1},
	{Name: "Speed", Mask: 0x2},
	{Name: "DumpRegisters", Mask: 0x8, Usage: "Reply with the contents of every register."},
	{Name: "MuteReplies", Mask: 0x10},
	{Name: "VisualIndicators", Mask: 0x20},
	{Name: "OperationLED", Mask: 0x40},
	{Name: "Heartbeat", Mask: 0x80, Usage: "Emit TimestampSeconds every second."},
}

// Has reports whether every bit in bits is set.
func (f OperationControlFlags) Has(bits OperationControlFlags) bool { return f&bits == bits }

// With returns f with bits set.
func (f OperationControlFlags) With(bits OperationControlFlags) OperationControlFlags { return f | bits }

// Without returns f with bits cleared.
func (f OperationControlFlags) Without(bits OperationControlFlags) OperationControlFlags {
	return f &^ bits
}

// String returns the set bit names joined by "|".
func (f OperationControlFlags) String() string { return formatBits(uint32(f), operationControlBits) }

// ResetDeviceFlags requests a device reset or persists its configuration.
type ResetDeviceFlags uint8

const (
	ResetDeviceNone            ResetDeviceFlags = 0x0
	ResetDeviceRestoreDefault  ResetDeviceFlags = 0x1
	ResetDeviceRestoreEeprom   ResetDeviceFlags = 0x2
	ResetDeviceSave            ResetDeviceFlags = 0x4
	ResetDeviceRestoreName     ResetDeviceFlags = 0x8
	ResetDeviceUpdateFirmware  ResetDeviceFlags = 0x20
	ResetDeviceBootFromDefault ResetDeviceFlags = 0x40
	ResetDeviceBootFromEeprom  ResetDeviceFlags = 0x80
)

var resetDeviceBits = []Bit{
	{Name: "RestoreDefault", Mask: 0x1},
	{Name: "RestoreEeprom", Mask: 0x2},
	{Name: "Save", Mask: 0x4},
	{Name: "RestoreName", Mask: 0x8},
	{Name: "UpdateFirmware", Mask: 0x20},
	{Name: "BootFromDefault", Mask: 0x40},
	{Name: "BootFromEeprom", Mask: 0x80},
}

// Has reports whether every bit in bits is set.
func (f ResetDeviceFlags) Has(bits ResetDeviceFlags) bool { return f&bits == bits }

// With returns f with bits set.
func (f ResetDeviceFlags) With(bits ResetDeviceFlags) ResetDeviceFlags { return f | bits }

// Without returns f with bits cleared.
func (f ResetDeviceFlags) Without(bits ResetDeviceFlags) ResetDeviceFlags { return f &^ bits }

// String returns the set bit names joined by "|".
func (f ResetDeviceFlags) String() string { return formatBits(uint32(f), resetDeviceBits) }

// Core is the schema of the registers common to all Harp devices.
var Core = MustSchema("Core",
	Descriptor{Address: AddressWhoAmI, Name: "WhoAmI", Wire: U16, Semantic: Scalar(U16), Length: 1, Access: ReadOnly,
		Description: "Identifies the device model."},
	Descriptor{Address: AddressHardwareVersionHigh, Name: "HardwareVersionHigh", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Major hardware version."},
	Descriptor{Address: AddressHardwareVersionLow, Name: "HardwareVersionLow", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Minor hardware version."},
	Descriptor{Address: AddressAssemblyVersion, Name: "AssemblyVersion", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Board assembly version."},
	Descriptor{Address: AddressCoreVersionHigh, Name: "CoreVersionHigh", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Major version of the protocol core."},
	Descriptor{Address: AddressCoreVersionLow, Name: "CoreVersionLow", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Minor version of the protocol core."},
	Descriptor{Address: AddressFirmwareVersionHigh, Name: "FirmwareVersionHigh", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Major firmware version."},
	Descriptor{Address: AddressFirmwareVersionLow, Name: "FirmwareVersionLow", Wire: U8, Semantic: Scalar(U8), Length: 1, Access: ReadOnly,
		Description: "Minor firmware version."},
	Descriptor{Address: AddressTimestampSeconds, Name: "TimestampSeconds", Wire: U32, Semantic: Scalar(U32), Length: 1, Access: ReadWrite,
		Description: "Whole seconds of the device clock."},
	Descriptor{Address: AddressTimestampMicroseconds, Name: "TimestampMicroseconds", Wire: U16, Semantic: Scalar(U16), Length: 1, Access: ReadOnly,
		Description: "Sub-second device clock in 32 microsecond ticks."},
	Descriptor{Address: AddressOperationControl, Name: "OperationControl", Wire: U8, Semantic: Flags(U8), Length: 1, Access: ReadWrite,
		Description: "Operation mode and indicator configuration.", Bits: operationControlBits},
	Descriptor{Address: AddressResetDevice, Name: "ResetDevice", Wire: U8, Semantic: Flags(U8), Length: 1, Access: ReadWrite,
		Description: "Resets the device or saves its non-volatile registers.", Bits: resetDeviceBits},
	Descriptor{Address: AddressDeviceName, Name: "DeviceName", Wire: U8, Semantic: Scalar(U8), Length: DeviceNameLength, Access: ReadWrite,
		Description: "Zero-terminated user-assigned device name."},
	Descriptor{Address: AddressSerialNumber, Name: "SerialNumber", Wire: U16, Semantic: Scalar(U16), Length: 1, Access: ReadWrite,
		Description: "Device serial number."},
)

// Typed core registers.
var (
	WhoAmI                = MustDefine[uint16](Core, AddressWhoAmI)
	HardwareVersionHigh   = MustDefine[uint8](Core, AddressHardwareVersionHigh)
	HardwareVersionLow    = MustDefine[uint8](Core, AddressHardwareVersionLow)
	AssemblyVersion       = MustDefine[uint8](Core, AddressAssemblyVersion)
	CoreVersionHigh       = MustDefine[uint8](Core, AddressCoreVersionHigh)
	CoreVersionLow        = MustDefine[uint8](Core, AddressCoreVersionLow)
	FirmwareVersionHigh   = MustDefine[uint8](Core, AddressFirmwareVersionHigh)
	FirmwareVersionLow    = MustDefine[uint8](Core, AddressFirmwareVersionLow)
	TimestampSeconds      = MustDefine[uint32](Core, AddressTimestampSeconds)
	TimestampMicroseconds = MustDefine[uint16](Core, AddressTimestampMicroseconds)
	OperationControl      = MustDefine[OperationControlFlags](Core, AddressOperationControl)
	ResetDevice           = MustDefine[ResetDeviceFlags](Core, AddressResetDevice)
	DeviceName            = MustDefineArray[uint8](Core, AddressDeviceName)
	SerialNumber          = MustDefine[uint16](Core, AddressSerialNumber)
)

// FastStepperDevice is the full register map of the device: the core
// registers followed by the application registers.
var FastStepperDevice = mustMerge("FastStepperDevice", Core, FastStepper)

func mustMerge(name string, schemas ...*Schema) *Schema {
	s, err := Merge(name, schemas...)
	if err != nil {
		panic(err)
	}
	return s
}
