package interaction

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// MaxCustomIDLength is the longest custom id the platform accepts.
const MaxCustomIDLength = 100

var ErrCustomIDTooLong = errors.New("custom id exceeds platform limit")

// ComponentData is a decoded component custom id.
// Custom ids are JSON objects whose "name" field selects the handler.
type ComponentData struct {
	Name   string
	Values []string
	raw    []byte
}

type componentHeader struct {
	Name string `json:"name"`
}

// ParseComponent decodes a custom id. Malformed ids produce an empty name.
func ParseComponent(customID string, values []string) *ComponentData {
	data := &ComponentData{Values: values, raw: []byte(customID)}

	var header componentHeader
	if err := sonic.UnmarshalString(customID, &header); err == nil {
		data.Name = header.Name
	}

	return data
}

// Decode unmarshals the full custom id payload into v.
func (d *ComponentData) Decode(v any) error {
	if err := sonic.Unmarshal(d.raw, v); err != nil {
		return fmt.Errorf("%w: malformed component payload: %w", ErrValidation, err)
	}
	return nil
}

// EncodeCustomID marshals a payload into a custom id.
// The payload must carry a "name" field for dispatch.
func EncodeCustomID(payload any) (string, error) {
	encoded, err := sonic.MarshalString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode custom id: %w", err)
	}

	if len(encoded) > MaxCustomIDLength {
		return "", fmt.Errorf("%w: %d characters", ErrCustomIDTooLong, len(encoded))
	}

	return encoded, nil
}
