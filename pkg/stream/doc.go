// Package stream provides register-level operators over sequences of Harp
// messages.
//
// The operators work on iter.Seq values so they compose with range loops and
// with each other:
//
//	for v := range stream.Parse(register.Encoder, stream.FromChannel(ctx, client.Events())) {
//		fmt.Println(v)
//	}
//
// GroupByRegister keys every message by its register descriptor,
// FilterRegister keeps messages for one register, Parse decodes them into
// typed values and Format turns typed values back into messages.
//
// Operators hold no state between sequences and may run concurrently over
// independent inputs. Messages that cannot be handled (unknown address,
// malformed payload) are skipped; pass OnError to observe them.
package stream
