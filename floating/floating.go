// Package floating implements the 8-bit floating point format of the Vole
// machine.
//
// A packed value is laid out as:
//
//	bit  7    sign
//	bits 6-4  exponent, excess-4 (0b000 is -4, 0b111 is +3)
//	bits 3-0  mantissa
//
// The binary point sits (4 - exponent) bits from the left of the mantissa,
// so the value is mantissa * 2^(exponent-4). The format is lossy; only
// values with a short dyadic expansion survive a round trip.
package floating

import (
	"math"
)

const (
	SIGN_MASK     = 0x80 // Sign bit.
	EXPONENT_MASK = 0x70 // Exponent field.
	MANTISSA_MASK = 0x0f // Mantissa field.

	EXPONENT_MIN = -4
	EXPONENT_MAX = 3

	MAX = 7.5 // Largest representable magnitude.
)

// Floating is a packed 8-bit floating point value.
type Floating uint8

// Sign returns 1 for negative values, 0 otherwise.
func (fl Floating) Sign() uint8 {
	return uint8(fl) >> 7
}

// Exponent returns the signed exponent encoded in bits 6-4.
func (fl Floating) Exponent() int {
	switch (uint8(fl) & EXPONENT_MASK) >> 4 {
	case 0b111:
		return 3
	case 0b110:
		return 2
	case 0b101:
		return 1
	case 0b100:
		return 0
	case 0b011:
		return -1
	case 0b010:
		return -2
	case 0b001:
		return -3
	case 0b000:
		return -4
	}

	panic("unsupported exponent value")
}

// Mantissa returns the low four bits.
func (fl Floating) Mantissa() uint8 {
	return uint8(fl) & MANTISSA_MASK
}

// Decode returns the real value of the packed float.
func (fl Floating) Decode() (value float64) {
	mantissa := fl.Mantissa()
	exponent := fl.Exponent()

	// Bits to the right of the binary point. Between 1 and 8, as the
	// radix point may sit to the left of the mantissa itself.
	fraction_len := 4 - exponent

	var int_part uint8
	if exponent > 0 {
		int_part = mantissa >> fraction_len
	}

	// Bit at fractional position i (counted from the point) weighs 2^-i.
	fraction_bits := uint(mantissa) & ((1 << fraction_len) - 1)
	frac_part := math.Ldexp(float64(fraction_bits), -fraction_len)

	value = float64(int_part) + frac_part
	if fl.Sign() == 1 {
		value = -value
	}

	return
}

// weights are the place values the encoder may set, highest first.
var weights = [8]float64{4, 2, 1, 0.5, 0.25, 0.125, 0.0625, 0.03125}

// Encode packs value into the 8-bit format.
//
// Bits below the resolution of the chosen exponent are truncated, and
// magnitudes below 0.03125 flush to a signed zero. NaN, infinities and
// magnitudes of 8 or more cannot be encoded.
func Encode(value float64) (fl Floating, err error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		err = &ErrUnrepresentable{Value: value, Err: ErrNotFinite}
		return
	}

	var sign uint8
	if value < 0 {
		sign = 1
	}

	int_part, frac_part := math.Modf(math.Abs(value))
	if int_part >= 8 {
		err = &ErrUnrepresentable{Value: value, Err: ErrOverflow}
		return
	}

	var exponent int
	switch {
	case int_part >= 4:
		exponent = 3
	case int_part >= 2:
		exponent = 2
	case int_part >= 1:
		exponent = 1
	case frac_part >= 0.5:
		exponent = 0
	case frac_part >= 0.25:
		exponent = -1
	case frac_part >= 0.125:
		exponent = -2
	case frac_part >= 0.0625:
		exponent = -3
	default:
		exponent = -4
	}

	// Greedy binary expansion over the weights into an 8-bit field, left
	// aligned on the highest bit set. Only the top four survive.
	var bits uint8
	shift := 7
	remain := int_part + frac_part
	for n, weight := range weights {
		if remain >= weight {
			bits |= 0x80 >> n
			remain -= weight
			shift = min(shift, n)
		}
	}
	mantissa := (bits << shift) >> 4

	fl = Floating(sign<<7 | uint8(exponent-EXPONENT_MIN)<<4 | mantissa)

	return
}

// Add decodes both operands, sums them and encodes the result.
func Add(a, b Floating) (sum Floating, err error) {
	return Encode(a.Decode() + b.Decode())
}
