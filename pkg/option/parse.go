package option

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuemby/flowrt/pkg/flowerrors"
)

// ParseValue parses raw according to kind's rule. A raw
// value that begins with an unescaped `"` is only legal for KindString;
// any other kind rejects such a mismatch with ErrInvalidOption rather
// than silently misparsing it, keeping the named-options round trip
// sound.
func ParseValue(kind Kind, raw string) (Value, error) {
	if kind != KindString && strings.HasPrefix(raw, `"`) {
		return Value{}, fmt.Errorf("option: quoted value for %s member: %w", kind, flowerrors.ErrInvalidOption)
	}

	switch kind {
	case KindBool:
		return parseBool(raw)
	case KindByte:
		return parseByte(raw)
	case KindInt32:
		return parseInt32(raw)
	case KindFloat64:
		return parseFloat64(raw)
	case KindIntRange:
		return parseIntRange(raw)
	case KindDoubleRange:
		return parseDoubleRange(raw)
	case KindRGB:
		return parseRGB(raw)
	case KindDirVector:
		return parseDirVector(raw)
	case KindString:
		return parseString(raw)
	default:
		return Value{}, fmt.Errorf("option: %w: unknown kind %d", flowerrors.ErrInvalidOption, int(kind))
	}
}

func parseBool(raw string) (Value, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return Bool(true), nil
	case "false", "0", "no", "off":
		return Bool(false), nil
	default:
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
}

func parseByte(raw string) (Value, error) {
	n, err := strconv.ParseInt(raw, 0, 32)
	if err != nil || n < 0 || n > 255 {
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	return Byte(byte(n)), nil
}

func parseInt32(raw string) (Value, error) {
	if strings.Contains(raw, "|") {
		r, err := parseIntRangeParts(raw)
		if err != nil {
			return Value{}, err
		}
		return Int32(r.Value), nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	return Int32(int32(n)), nil
}

func parseFloat64(raw string) (Value, error) {
	if strings.Contains(raw, "|") {
		r, err := parseDoubleRangeParts(raw)
		if err != nil {
			return Value{}, err
		}
		return Float64(r.Value), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	return Float64(f), nil
}

func parseIntRange(raw string) (Value, error) {
	r, err := parseIntRangeParts(raw)
	if err != nil {
		return Value{}, err
	}
	return IntRange(r), nil
}

func parseIntRangeParts(raw string) (IntRangeSpec, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 1 && len(parts) != 4 {
		return IntRangeSpec{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return IntRangeSpec{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
		}
		nums[i] = n
	}
	if len(nums) == 1 {
		return IntRangeSpec{Value: int32(nums[0])}, nil
	}
	return IntRangeSpec{
		Value: int32(nums[0]), Min: int32(nums[1]), Max: int32(nums[2]), Step: int32(nums[3]),
	}, nil
}

func parseDoubleRange(raw string) (Value, error) {
	r, err := parseDoubleRangeParts(raw)
	if err != nil {
		return Value{}, err
	}
	return DoubleRange(r), nil
}

func parseDoubleRangeParts(raw string) (DoubleRangeSpec, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 1 && len(parts) != 4 {
		return DoubleRangeSpec{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return DoubleRangeSpec{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
		}
		nums[i] = f
	}
	if len(nums) == 1 {
		return DoubleRangeSpec{Value: nums[0]}, nil
	}
	return DoubleRangeSpec{Value: nums[0], Min: nums[1], Max: nums[2], Step: nums[3]}, nil
}

func parseRGB(raw string) (Value, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 3 && len(parts) != 6 {
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
		}
		nums[i] = n
	}
	spec := RGBSpec{R: uint32(nums[0]), G: uint32(nums[1]), B: uint32(nums[2])}
	if len(nums) == 6 {
		spec.RMax, spec.GMax, spec.BMax = uint32(nums[3]), uint32(nums[4]), uint32(nums[5])
	} else {
		spec.RMax, spec.GMax, spec.BMax = 255, 255, 255
	}
	return RGB(spec), nil
}

func parseDirVector(raw string) (Value, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 3 && len(parts) != 5 {
		return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Value{}, fmt.Errorf("option: %q: %w", raw, flowerrors.ErrInvalidOption)
		}
		nums[i] = f
	}
	spec := DirVectorSpec{X: nums[0], Y: nums[1], Z: nums[2]}
	if len(nums) == 5 {
		spec.Min, spec.Max = nums[3], nums[4]
	}
	return DirVector(spec), nil
}

func parseString(raw string) (Value, error) {
	if !strings.HasPrefix(raw, `"`) {
		return String(raw), nil
	}
	unescaped, err := UnescapeCString(raw)
	if err != nil {
		return Value{}, err
	}
	return String(unescaped), nil
}

// UnescapeCString unescapes a C-style quoted string: a leading `"`
// triggers unescaping of \\ \" \n \r \t \b \f \v \a \' and the string
// terminates at the matching unescaped `"`.
func UnescapeCString(raw string) (string, error) {
	if !strings.HasPrefix(raw, `"`) {
		return raw, nil
	}
	s := raw[1:]
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			return b.String(), nil
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'v':
				b.WriteByte('\v')
			case 'a':
				b.WriteByte('\a')
			case '\'':
				b.WriteByte('\'')
			default:
				return "", fmt.Errorf("option: invalid escape \\%c: %w", s[i], flowerrors.ErrInvalidOption)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("option: unterminated quoted string: %w", flowerrors.ErrInvalidOption)
}
