package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Snowflake es un ID de Discord. En el JSON viejo vienen como números, así que
// aceptamos número o string y escribimos número cuando se puede.
type Snowflake string

func (s Snowflake) String() string { return string(s) }

func (s Snowflake) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseUint(string(s), 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Snowflake(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("snowflake: %w", err)
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return fmt.Errorf("snowflake %s: %w", n, err)
	}
	*s = Snowflake(n.String())
	return nil
}
