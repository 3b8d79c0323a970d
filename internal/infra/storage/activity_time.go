package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// activityTime escribe RFC3339 y lee también el isoformat "naive" (sin zona)
// de los config.json viejos; esos se toman en hora local.
type activityTime time.Time

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t activityTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

func (t *activityTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("last_activity: %w", err)
	}
	parsed, err := parseActivity(s)
	if err != nil {
		return err
	}
	*t = activityTime(parsed)
	return nil
}

func parseActivity(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("last_activity: formato no reconocido %q", s)
}
