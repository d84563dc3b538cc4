package services

import (
	"encoding/json"
	"strings"
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string such as "Go, React, Postgres".
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = ParseStringList(arr...)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseStringList(s)
	return nil
}

// OrEmpty returns a non-nil slice.
func (l StringList) OrEmpty() []string {
	if l == nil {
		return []string{}
	}
	return l
}

// ParseStringList splits each value on commas and drops blank entries,
// keeping the original order.
func ParseStringList(values ...string) StringList {
	var out StringList
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
