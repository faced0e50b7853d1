package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// FormatValue renders a column value as the canonical string used in
// docids, serialized rows and document properties. The rendering is a
// pure function of the value: identical values always produce identical
// strings.
//
// Timestamps render as UTC RFC 3339. Binary values render as standard
// base64. A value of an unsupported type is a serialization failure.
func FormatValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case BytesLob:
		return base64.StdEncoding.EncodeToString(x), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return x.UTC().Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: value type %T", ErrSerialization, v)
	}
}
