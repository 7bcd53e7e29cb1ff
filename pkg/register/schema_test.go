package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastStepperLookupIsTotalAndInjective(t *testing.T) {
	seen := make(map[string]uint8)
	for addr := uint8(32); addr <= 51; addr++ {
		d, err := FastStepper.Lookup(addr)
		require.NoError(t, err, "address %d", addr)
		assert.Equal(t, addr, d.Address)
		if prev, dup := seen[d.Name]; dup {
			t.Fatalf("register %s at both %d and %d", d.Name, prev, addr)
		}
		seen[d.Name] = addr
	}
	assert.Len(t, seen, 20)
	assert.Equal(t, 20, FastStepper.Len())
}

func TestFastStepperLookupOutsideRange(t *testing.T) {
	for _, addr := range []uint8{0, 13, 31, 52, 200, 255} {
		_, err := FastStepper.Lookup(addr)
		assert.ErrorIs(t, err, ErrUnknownRegister, "address %d", addr)
		assert.False(t, FastStepper.Contains(addr))
	}
}

func TestFastStepperAddresses(t *testing.T) {
	addrs := FastStepper.Addresses()
	require.Len(t, addrs, 20)
	for i, addr := range addrs {
		assert.Equal(t, uint8(32+i), addr)
	}

	// Callers cannot mutate the schema through the returned slice.
	addrs[0] = 99
	assert.Equal(t, uint8(32), FastStepper.Addresses()[0])
}

func TestFastStepperWireTable(t *testing.T) {
	tests := []struct {
		name string
		wire WireType
		kind Kind
	}{
		{"Control", U16, BitFlags},
		{"Encoder", S16, RawInteger},
		{"AnalogInput", S16, RawInteger},
		{"StopSwitch", U8, BitFlags},
		{"MotorBrake", U8, BitFlags},
		{"Moving", U8, BitFlags},
		{"StopMovement", U8, RawInteger},
		{"DirectVelocity", S32, RawInteger},
		{"MoveTo", S32, RawInteger},
		{"MoveToEvents", U8, RawInteger},
		{"MinVelocity", U16, RawInteger},
		{"MaxVelocity", U16, RawInteger},
		{"Acceleration", S32, RawInteger},
		{"Deceleration", S32, RawInteger},
		{"AccelerationJerk", S32, RawInteger},
		{"DecelerationJerk", S32, RawInteger},
		{"HomeSteps", S32, RawInteger},
		{"HomeStepsEvents", U8, BitFlags},
		{"HomeVelocity", U32, RawInteger},
		{"HomeSwitch", U8, RawInteger},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FastStepper.LookupName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, uint8(32+i), d.Address)
			assert.Equal(t, tt.wire, d.Wire)
			assert.Equal(t, tt.kind, d.Semantic.Kind)
			assert.Equal(t, 1, d.Length)
		})
	}
}

func TestFastStepperAccess(t *testing.T) {
	events := map[string]bool{
		"Encoder": true, "AnalogInput": true, "StopSwitch": true, "Moving": true,
		"MoveToEvents": true, "HomeStepsEvents": true, "HomeSwitch": true,
	}
	for d := range FastStepper.All() {
		if events[d.Name] {
			assert.Equal(t, EventOnly, d.Access, d.Name)
		} else {
			assert.True(t, d.Access.Writable(), d.Name)
		}
	}
}

func TestNewSchemaRejectsDuplicateAddress(t *testing.T) {
	_, err := NewSchema("dup",
		Descriptor{Address: 1, Name: "A", Wire: U8, Semantic: Scalar(U8), Length: 1},
		Descriptor{Address: 1, Name: "B", Wire: U8, Semantic: Scalar(U8), Length: 1},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address 1")
}

func TestNewSchemaRejectsWidthDisagreement(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"width", Descriptor{Address: 1, Name: "A", Wire: U8, Semantic: Scalar(U16), Length: 1}},
		{"signedness", Descriptor{Address: 1, Name: "A", Wire: S16, Semantic: Scalar(U16), Length: 1}},
		{"signed flags", Descriptor{Address: 1, Name: "A", Wire: S16, Semantic: Semantic{Kind: BitFlags, Width: 16, Signed: true}, Length: 1}},
		{"bit too wide", Descriptor{Address: 1, Name: "A", Wire: U8, Semantic: Flags(U8), Length: 1, Bits: []Bit{{Name: "High", Mask: 0x100}}}},
		{"overlapping bits", Descriptor{Address: 1, Name: "A", Wire: U8, Semantic: Flags(U8), Length: 1, Bits: []Bit{{Name: "X", Mask: 0x3}, {Name: "Y", Mask: 0x2}}}},
		{"zero length", Descriptor{Address: 1, Name: "A", Wire: U8, Semantic: Scalar(U8)}},
		{"bad wire", Descriptor{Address: 1, Name: "A", Wire: 0, Semantic: Scalar(U8), Length: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema("bad", tt.desc)
			assert.Error(t, err)
		})
	}
}

func TestMergeSchemas(t *testing.T) {
	all, err := Merge("all", Core, FastStepper)
	require.NoError(t, err)
	assert.Equal(t, Core.Len()+FastStepper.Len(), all.Len())

	d, err := all.Lookup(AddressWhoAmI)
	require.NoError(t, err)
	assert.Equal(t, "WhoAmI", d.Name)

	_, err = Merge("clash", FastStepper, FastStepper)
	assert.Error(t, err)
}

func TestCoreSchema(t *testing.T) {
	d, err := Core.Lookup(AddressDeviceName)
	require.NoError(t, err)
	assert.Equal(t, DeviceNameLength, d.Length)
	assert.Equal(t, DeviceNameLength, d.PayloadSize())

	d, err = Core.Lookup(AddressWhoAmI)
	require.NoError(t, err)
	assert.Equal(t, ReadOnly, d.Access)
	assert.False(t, d.Access.Writable())
}

func TestWireTypeRange(t *testing.T) {
	tests := []struct {
		wire   WireType
		lo, hi int64
	}{
		{U8, 0, 255},
		{S16, -32768, 32767},
		{U16, 0, 65535},
		{S32, -2147483648, 2147483647},
		{U32, 0, 4294967295},
	}
	for _, tt := range tests {
		lo, hi := tt.wire.Range()
		assert.Equal(t, tt.lo, lo, tt.wire.String())
		assert.Equal(t, tt.hi, hi, tt.wire.String())

		parsed, err := ParseWireType(tt.wire.String())
		require.NoError(t, err)
		assert.Equal(t, tt.wire, parsed)
	}
	_, err := ParseWireType("F64")
	assert.Error(t, err)
}

func TestFastStepperDeviceMap(t *testing.T) {
	assert.Equal(t, Core.Len()+FastStepper.Len(), FastStepperDevice.Len())
	for _, addr := range []uint8{AddressWhoAmI, AddressDeviceName, AddressControl, AddressHomeSwitch} {
		assert.True(t, FastStepperDevice.Contains(addr))
	}
	assert.False(t, FastStepperDevice.Contains(20))
}
