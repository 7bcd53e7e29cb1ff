package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/stream"
)

// lookupRegister resolves a register by name (case-insensitive) or address.
func lookupRegister(arg string) (register.Descriptor, error) {
	if n, err := strconv.ParseUint(arg, 0, 8); err == nil {
		return register.FastStepperDevice.Lookup(uint8(n))
	}
	for d := range register.FastStepperDevice.All() {
		if strings.EqualFold(d.Name, arg) {
			return d, nil
		}
	}
	return register.Descriptor{}, fmt.Errorf("%w: %q", register.ErrUnknownRegister, arg)
}

func formatValues(d register.Descriptor, values []int64) string {
	if d.Address == register.AddressDeviceName {
		b := make([]byte, 0, len(values))
		for _, v := range values {
			if v == 0 {
				break
			}
			b = append(b, byte(v))
		}
		return strconv.Quote(string(b))
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = d.FormatValue(v)
	}
	return strings.Join(parts, " ")
}

// cmdRegisters lists the register map, or the given registers in detail.
func cmdRegisters(out io.Writer, args []string) error {
	if len(args) > 0 {
		for _, arg := range args {
			d, err := lookupRegister(arg)
			if err != nil {
				return err
			}
			printRegister(out, d)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDR\tNAME\tTYPE\tACCESS\tVALUE")
	for d := range register.FastStepperDevice.All() {
		typ := d.Wire.String()
		if d.Length > 1 {
			typ = fmt.Sprintf("%s[%d]", typ, d.Length)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.Address, d.Name, typ, d.Access, d.Semantic)
	}
	return tw.Flush()
}

func printRegister(out io.Writer, d register.Descriptor) {
	fmt.Fprintf(out, "%s (address %d)\n", d.Name, d.Address)
	fmt.Fprintf(out, "  Type:   %s x%d, %s\n", d.Wire, d.Length, d.Semantic)
	fmt.Fprintf(out, "  Access: %s\n", d.Access)
	if d.Description != "" {
		fmt.Fprintf(out, "  %s\n", d.Description)
	}
	for _, b := range d.Bits {
		fmt.Fprintf(out, "    0x%04X  %s\n", b.Mask, b.Name)
	}
}

func cmdInfo(ctx context.Context, s *session, out io.Writer) error {
	c := s.client
	name, err := c.ReadDeviceName(ctx)
	if err != nil {
		return err
	}
	fw, err := c.ReadFirmwareVersion(ctx)
	if err != nil {
		return err
	}
	hw, err := c.ReadHardwareVersion(ctx)
	if err != nil {
		return err
	}
	serial, err := c.ReadSerialNumber(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Target:    %s\n", c.Target())
	fmt.Fprintf(out, "WhoAmI:    %d\n", c.WhoAmI())
	fmt.Fprintf(out, "Name:      %s\n", name)
	fmt.Fprintf(out, "Firmware:  %s\n", fw)
	fmt.Fprintf(out, "Hardware:  %s\n", hw)
	fmt.Fprintf(out, "Serial:    %d\n", serial)
	if fw.String() != register.FastStepperFirmwareVersion {
		fmt.Fprintf(out, "Note: register map describes firmware %s\n", register.FastStepperFirmwareVersion)
	}
	return nil
}

func cmdRead(ctx context.Context, s *session, out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("read: register name or address required")
	}
	for _, arg := range args {
		d, err := lookupRegister(arg)
		if err != nil {
			return err
		}
		v, err := s.client.ReadValues(ctx, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %s\n", d.Name, formatValues(d, v.Value))
	}
	return nil
}

func cmdWrite(ctx context.Context, s *session, out io.Writer, args []string) error {
	if len(args) < 2 {
		return errors.New("write: usage: write <register> <value>...")
	}
	d, err := lookupRegister(args[0])
	if err != nil {
		return err
	}
	values, err := parseValues(d, args[1:])
	if err != nil {
		return err
	}
	if err := s.client.WriteValues(ctx, d, values...); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s <- %s\n", d.Name, formatValues(d, values))
	return nil
}

// parseValues parses write arguments. The device name register takes a
// single string argument.
func parseValues(d register.Descriptor, args []string) ([]int64, error) {
	if d.Address == register.AddressDeviceName {
		name := strings.Join(args, " ")
		if len(name) >= d.Length {
			return nil, fmt.Errorf("%w: device name longer than %d bytes", register.ErrValueOutOfRange, d.Length-1)
		}
		values := make([]int64, d.Length)
		for i := range len(name) {
			values[i] = int64(name[i])
		}
		return values, nil
	}
	if len(args) != d.Length {
		return nil, fmt.Errorf("%s takes %d value(s), got %d", d.Name, d.Length, len(args))
	}
	values := make([]int64, len(args))
	for i, arg := range args {
		v, err := d.ParseValue(arg)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func cmdMonitor(ctx context.Context, s *session, out io.Writer, args []string) error {
	filter := make(map[uint8]bool)
	for _, arg := range args {
		d, err := lookupRegister(arg)
		if err != nil {
			return err
		}
		filter[d.Address] = true
	}
	fmt.Fprintln(out, "Monitoring device events (Ctrl-C to stop)...")
	return monitor(ctx, s, out, filter)
}

// monitor prints events until ctx is done or the connection closes.
func monitor(ctx context.Context, s *session, out io.Writer, filter map[uint8]bool) error {
	msgs := stream.FromChannel(ctx, s.client.Events())
	skipped := stream.OnError(func(msg harp.Message, err error) {
		s.logger.Warn("skipped message", "message", msg, "error", err)
	})
	for dec := range stream.ParseRegisters(register.FastStepperDevice, msgs, skipped) {
		if len(filter) > 0 && !filter[dec.Register.Address] {
			continue
		}
		fmt.Fprintln(out, formatEvent(dec))
	}
	if err := s.conn.Err(); err != nil {
		return err
	}
	return nil
}

func formatEvent(dec stream.Decoded) string {
	ts, _ := dec.Message.Timestamp()
	kind := dec.Message.Type().String()
	return fmt.Sprintf("%12.6f  %-7s %-18s %s", ts, kind, dec.Register.Name, formatValues(dec.Register, dec.Values))
}
