package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Structured fields (tag lists, settings maps, remote lists, dependency
// lists) live in single TEXT columns as JSON. The wrappers below implement
// sql.Scanner and driver.Valuer so they bind and scan like ordinary
// columns. Malformed stored text never fails a read: decoding degrades to
// the empty value, since these columns hold user-entered free-form data.

// StringList is a JSON array of strings stored in one column
type StringList []string

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	data, err := jsonColumnBytes(value, "StringList")
	if err != nil {
		return err
	}
	var out []string
	if data == nil || json.Unmarshal(data, &out) != nil || out == nil {
		*l = StringList{}
		return nil
	}
	*l = out
	return nil
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// JSONMap is a JSON object stored in one column
type JSONMap map[string]any

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	data, err := jsonColumnBytes(value, "JSONMap")
	if err != nil {
		return err
	}
	var out map[string]any
	if data == nil || json.Unmarshal(data, &out) != nil || out == nil {
		*m = JSONMap{}
		return nil
	}
	*m = out
	return nil
}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// RemoteList is a JSON array of git remotes stored in one column
type RemoteList []GitRemote

// Scan implements sql.Scanner
func (r *RemoteList) Scan(value any) error {
	data, err := jsonColumnBytes(value, "RemoteList")
	if err != nil {
		return err
	}
	var out []GitRemote
	if data == nil || json.Unmarshal(data, &out) != nil || out == nil {
		*r = RemoteList{}
		return nil
	}
	*r = out
	return nil
}

// Value implements driver.Valuer
func (r RemoteList) Value() (driver.Value, error) {
	if r == nil {
		r = RemoteList{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonColumnBytes(value any, typeName string) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot scan %T into %s", value, typeName)
	}
}
