package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, integral floats and numeric strings.
func ToInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

// ToString converts scalars to string. Missing values are an error.
func ToString(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", fmt.Errorf("value is missing")
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int, int64, int32, uint, uint64, uint32, float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", val)
	}
}

// ToStrings converts a list, or a comma separated string, to a list of strings.
// Blank items are dropped.
func ToStrings(val any) ([]string, error) {
	var items []string
	switch v := val.(type) {
	case nil:
		return nil, nil
	case string:
		items = strings.Split(v, ",")
	case []string:
		items = v
	case []any:
		for i, item := range v {
			s, err := ToString(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to a list of strings", val)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

// ToBool converts various types to bool.
// It handles bool, 0/1 integers, and strings ("1", "true", "yes", "0", "false", "no").
func ToBool(val any) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case int, int64, int32, uint, uint64, uint32:
		i, _ := ToInt(v)
		if i != 0 && i != 1 {
			return false, fmt.Errorf("%d is not a boolean", i)
		}
		return i == 1, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true, nil
		case "0", "false", "no":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a boolean", v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", val)
	}
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

// ToTime converts a time value or a date string to time.Time, in UTC.
func ToTime(val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not a date", v)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", val)
	}
}
