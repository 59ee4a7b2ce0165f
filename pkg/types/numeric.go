package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Numeric scans a column that engines may return as a float, an integer, a
// decimal string or raw bytes, and yields a float64. NULL scans as 0.
type Numeric float64

// Scan implements sql.Scanner.
func (n *Numeric) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = 0
	case float64:
		*n = Numeric(v)
	case float32:
		*n = Numeric(v)
	case int64:
		*n = Numeric(v)
	case int32:
		*n = Numeric(v)
	case int:
		*n = Numeric(v)
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("scan numeric: unsupported type %T", src)
	}
	return nil
}

func (n *Numeric) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("scan numeric %q: %w", s, err)
	}
	*n = Numeric(f)
	return nil
}

// Value implements driver.Valuer.
func (n Numeric) Value() (driver.Value, error) { return float64(n), nil }

// Float64 returns n as a float64.
func (n Numeric) Float64() float64 { return float64(n) }
