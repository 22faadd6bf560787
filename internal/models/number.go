package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float that also decodes from numeric strings. Imported files
// often carry marks as "91" or "84.5%".
type Number float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float returns n as float64.
func (n Number) Float() float64 {
	return float64(n)
}
