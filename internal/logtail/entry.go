package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed JSON log line.
type Entry struct {
	Time   time.Time
	Level  string
	Logger string
	Msg    string
	Fields []Field
	Raw    string
}

// Field is an extra key/value pair of a log line, sorted by key.
type Field struct {
	Key   string
	Value string
}

var reserved = map[string]bool{
	"ts": true, "level": true, "logger": true, "msg": true, "caller": true, "stacktrace": true,
}

// Parse decodes a line written by the JSON encoder. Lines that are not JSON
// come back with only Raw and Msg set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}

	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		entry.Msg = line
		return entry
	}

	entry.Level = strings.ToUpper(stringField(obj, "level"))
	entry.Logger = stringField(obj, "logger")
	entry.Msg = stringField(obj, "msg")
	entry.Time = parseTime(obj["ts"])

	for key, value := range obj {
		if reserved[key] {
			continue
		}
		entry.Fields = append(entry.Fields, Field{Key: key, Value: formatValue(value)})
	}
	sort.Slice(entry.Fields, func(i, j int) bool { return entry.Fields[i].Key < entry.Fields[j].Key })
	return entry
}

// String renders the entry on one line for the log panel.
func (e Entry) String() string {
	if e.Level == "" && e.Time.IsZero() {
		return e.Msg
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", e.Level)
	if e.Logger != "" {
		b.WriteByte(' ')
		b.WriteString(e.Logger)
	}
	b.WriteByte(' ')
	b.WriteString(e.Msg)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " %s=%s", f.Key, f.Value)
	}
	return b.String()
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// parseTime accepts both epoch seconds and ISO8601 timestamps.
func parseTime(v any) time.Time {
	switch ts := v.(type) {
	case float64:
		sec := int64(ts)
		return time.Unix(sec, int64((ts-float64(sec))*1e9))
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700"} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}
