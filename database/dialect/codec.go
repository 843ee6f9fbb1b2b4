package dialect

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/gaborage/go-sqlmodel/database/types"
)

const nullText = "NULL"

// codec is the built-in conversion set. Every vendor accepts []byte, string,
// float64, float32, int, int64, int32, int16, bool, time.Time, driver.Valuer
// arguments and sql.Scanner slots; the flags widen or narrow the integer range.
type codec struct {
	signedTiny   bool // int8
	unsignedTiny bool // uint8
	unsigned     bool // every unsigned width
	boolAsInt    bool // bind bool as 1/0
}

func (c codec) allows(value any) bool {
	switch value.(type) {
	case int8, *int8:
		return c.signedTiny
	case uint8, *uint8:
		return c.unsignedTiny || c.unsigned
	case uint16, uint32, uint, uint64, *uint16, *uint32, *uint, *uint64:
		return c.unsigned
	}
	return true
}

func (c codec) convertArg(value any, b *Binder) (string, error) {
	if !c.allows(value) {
		return "", Unsupported(value, b)
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		b.Bind(nil)
		return nullText, nil
	}

	switch v := value.(type) {
	case nil:
		b.Bind(nil)
		return nullText, nil
	case []byte:
		b.Bind(v)
		return fmt.Sprint(v), nil
	case string, float64, float32, int, int64, int32, int16, int8,
		uint, uint64, uint32, uint16, uint8:
		b.Bind(v)
		return fmt.Sprint(v), nil
	case bool:
		if !c.boolAsInt {
			b.Bind(v)
			return strconv.FormatBool(v), nil
		}
		n := 0
		if v {
			n = 1
		}
		b.Bind(n)
		return strconv.Itoa(n), nil
	case time.Time:
		b.Bind(v)
		return v.Format(time.RFC3339Nano), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("argument %T: %w", value, err)
		}
		b.Bind(v)
		if dv == nil {
			return nullText, nil
		}
		return fmt.Sprint(dv), nil
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer {
		return c.convertArg(rv.Elem().Interface(), b)
	}
	return "", Unsupported(value, b)
}

func (c codec) scanColumn(column string, row *Row, slot any) error {
	v, err := row.Value(column)
	if err != nil {
		return err
	}
	if s, ok := slot.(sql.Scanner); ok {
		if err := s.Scan(v); err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
		return nil
	}
	if !c.allows(slot) {
		return unsupportedSlot(column, slot)
	}
	// NULL leaves the slot as it was
	if v == nil {
		return nil
	}

	if err := assign(slot, v); err != nil {
		if errors.Is(err, errUnknownSlot) {
			return c.scanIndirect(column, row, slot)
		}
		return fmt.Errorf("column %q: %w", column, err)
	}
	return nil
}

// scanIndirect handles pointer fields: a fresh element is decoded and stored.
func (c codec) scanIndirect(column string, row *Row, slot any) error {
	rv := reflect.ValueOf(slot)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Pointer {
		return unsupportedSlot(column, slot)
	}
	fresh := reflect.New(rv.Elem().Type().Elem())
	if err := c.scanColumn(column, row, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh)
	return nil
}

func unsupportedSlot(column string, slot any) error {
	return fmt.Errorf("%w: column %q into %T", types.ErrUnsupportedType, column, slot)
}
