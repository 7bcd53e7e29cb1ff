package device

import (
	"context"
	"fmt"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

// ReadValues reads any register by descriptor. Elements are widened to
// int64. Use it when the register is only known at run time; typed
// accessors are preferable otherwise.
func (c *Client) ReadValues(ctx context.Context, d register.Descriptor) (register.Timestamped[[]int64], error) {
	req := harp.NewReadRequest(d.Address, d.Wire.PayloadType())
	reply, err := c.roundTrip(ctx, "read", d, req)
	if err != nil {
		return register.Timestamped[[]int64]{}, err
	}
	values, err := register.DecodeValues(d, reply)
	if err != nil {
		return register.Timestamped[[]int64]{}, fmt.Errorf("read %s: %w", d.Name, err)
	}
	ts, _ := reply.Timestamp()
	return register.Timestamped[[]int64]{Seconds: ts, Value: values}, nil
}

// WriteValues writes any register by descriptor.
func (c *Client) WriteValues(ctx context.Context, d register.Descriptor, values ...int64) error {
	if !d.Access.Writable() {
		return fmt.Errorf("write %s: %w", d.Name, register.ErrReadOnly)
	}
	msg, err := register.EncodeValues(d, harp.Write, values)
	if err != nil {
		return fmt.Errorf("write %s: %w", d.Name, err)
	}
	_, err = c.roundTrip(ctx, "write", d, msg)
	return err
}
