package dialect

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

var errUnknownSlot = errors.New("unknown slot type")

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// assign stores the driver value v into slot. It returns errUnknownSlot when
// slot is not one of the primitive pointer types.
func assign(slot, v any) error {
	switch p := slot.(type) {
	case *string:
		s, err := asString(v)
		if err != nil {
			return err
		}
		*p = s
	case *[]byte:
		bs, err := asBytes(v)
		if err != nil {
			return err
		}
		*p = bs
	case *bool:
		bv, err := asBool(v)
		if err != nil {
			return err
		}
		*p = bv
	case *float64:
		f, err := asFloat64(v)
		if err != nil {
			return err
		}
		*p = f
	case *float32:
		f, err := asFloat64(v)
		if err != nil {
			return err
		}
		*p = float32(f)
	case *time.Time:
		t, err := asTime(v)
		if err != nil {
			return err
		}
		*p = t
	case *int:
		return setSigned(p, v, strconv.IntSize)
	case *int64:
		return setSigned(p, v, 64)
	case *int32:
		return setSigned(p, v, 32)
	case *int16:
		return setSigned(p, v, 16)
	case *int8:
		return setSigned(p, v, 8)
	case *uint:
		return setUnsigned(p, v, strconv.IntSize)
	case *uint64:
		return setUnsigned(p, v, 64)
	case *uint32:
		return setUnsigned(p, v, 32)
	case *uint16:
		return setUnsigned(p, v, 16)
	case *uint8:
		return setUnsigned(p, v, 8)
	default:
		return errUnknownSlot
	}
	return nil
}

func setSigned[T ~int | ~int8 | ~int16 | ~int32 | ~int64](p *T, v any, bits int) error {
	n, err := asInt64(v)
	if err != nil {
		return err
	}
	if bits < 64 && (n < -(1<<(bits-1)) || n > 1<<(bits-1)-1) {
		return fmt.Errorf("value %d overflows %d-bit integer", n, bits)
	}
	*p = T(n)
	return nil
}

func setUnsigned[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](p *T, v any, bits int) error {
	n, err := asUint64(v)
	if err != nil {
		return err
	}
	if bits < 64 && n > 1<<bits-1 {
		return fmt.Errorf("value %d overflows %d-bit unsigned integer", n, bits)
	}
	*p = T(n)
	return nil
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to integer", v)
}

func asUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case []byte:
		return strconv.ParseUint(string(n), 10, 64)
	case string:
		return strconv.ParseUint(n, 10, 64)
	}
	i, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("value %d is negative", i)
	}
	return uint64(i), nil
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case []byte:
		return strconv.ParseFloat(string(n), 64)
	case string:
		return strconv.ParseFloat(n, 64)
	}
	i, err := asInt64(v)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
	return float64(i), nil
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case []byte:
		return strconv.ParseBool(string(b))
	case string:
		return strconv.ParseBool(b)
	}
	i, err := asInt64(v)
	if err != nil {
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}
	return i != 0, nil
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v)
}

func asBytes(v any) ([]byte, error) {
	switch s := v.(type) {
	case []byte:
		return append([]byte(nil), s...), nil
	case string:
		return []byte(s), nil
	}
	return nil, fmt.Errorf("cannot convert %T to bytes", v)
}

func asTime(v any) (time.Time, error) {
	var text string
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case []byte:
		text = string(t)
	case string:
		text = t
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", text)
}
