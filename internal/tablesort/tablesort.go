// Package tablesort sorts admin table rows by a column chosen at runtime. Columns
// are dotted JSON paths ("user.name"); a missing path sorts as "".
package tablesort

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// State is the sort column of a table view.
type State struct {
	Key       string
	Direction Direction
}

// Toggle selects key: the current key flips direction, a new key starts ascending.
func (s *State) Toggle(key string) {
	if s.Key == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Key = key
	s.Direction = Ascending
}

// Sort orders records in place by st. Equal keys keep no particular order.
func Sort[T any](records []T, st State) {
	if st.Key == "" || len(records) < 2 {
		return
	}

	type keyed struct {
		key    any
		record T
	}
	rows := make([]keyed, len(records))
	for i, r := range records {
		rows[i] = keyed{key: Lookup(r, st.Key), record: r}
	}

	slices.SortFunc(rows, func(a, b keyed) int {
		c := compare(a.key, b.key)
		if st.Direction == Descending {
			return -c
		}
		return c
	})

	for i := range rows {
		records[i] = rows[i].record
	}
}

// Lookup resolves a dotted path against a record. Structs are read through their
// JSON form so paths use JSON field names.
func Lookup(record any, path string) any {
	var cur any = asTree(record)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok || cur == nil {
			return ""
		}
	}
	return cur
}

func asTree(record any) any {
	if m, ok := record.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil
	}
	return tree
}

func compare(a, b any) int {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}

	sa, sb := text(a), text(b)
	if ta, err := time.Parse(time.RFC3339, sa); err == nil {
		if tb, err := time.Parse(time.RFC3339, sb); err == nil {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
