package migration

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// coerceValue converts one scanned source value into the representation the
// mapped destination type accepts. SQLite cells carry per-value types, so a
// column mapped to BIGINT can still hold text; anything that cannot be
// represented in the destination type is rejected here instead of being
// bent to NULL. The returned value is handed to the driver as a bind
// parameter.
func coerceValue(value any, destType string) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch destType {
	case "BIGINT":
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("non-integral value %v", v)
			}
			return int64(v), nil
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as integer", v)
			}
			return n, nil
		case []byte:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as integer", string(v))
			}
			return n, nil
		}
		return nil, fmt.Errorf("unsupported %T for BIGINT", value)

	case "DOUBLE PRECISION":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as float", v)
			}
			return f, nil
		case []byte:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as float", string(v))
			}
			return f, nil
		}
		return nil, fmt.Errorf("unsupported %T for DOUBLE PRECISION", value)

	case "BYTEA":
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
		return nil, fmt.Errorf("unsupported %T for BYTEA", value)

	case "TEXT":
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		case time.Time:
			return v.Format(time.RFC3339Nano), nil
		}
		return fmt.Sprintf("%v", value), nil
	}

	return nil, fmt.Errorf("unknown destination type %s", destType)
}
