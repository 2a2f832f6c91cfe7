package workflow

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// ExtractTriggers normalizes the `on:` field of a decoded workflow document.
//
// doc is usually the result of Decode, but plain maps produced by other YAML
// or JSON decoders are accepted as well. Malformed input never fails; it
// yields an empty list.
func ExtractTriggers(doc any) []TriggerEvent {
	on, ok := lookupTrigger(doc)
	if !ok || on == nil {
		return []TriggerEvent{}
	}

	switch v := on.(type) {
	case string:
		if v == "" {
			return []TriggerEvent{}
		}
		return []TriggerEvent{{Event: v}}
	case []any:
		events := make([]TriggerEvent, 0, len(v))
		for _, item := range v {
			if name, ok := item.(string); ok && name != "" {
				events = append(events, TriggerEvent{Event: name})
			}
		}
		return events
	case []string:
		events := make([]TriggerEvent, 0, len(v))
		for _, name := range v {
			if name != "" {
				events = append(events, TriggerEvent{Event: name})
			}
		}
		return events
	}

	entries, ok := mappingEntries(on)
	if !ok {
		return []TriggerEvent{}
	}

	events := make([]TriggerEvent, 0, len(entries))
	for _, entry := range entries {
		name, ok := entry.Key.(string)
		if !ok || name == "" {
			continue
		}
		event := TriggerEvent{Event: name}
		if fields, ok := mappingEntries(entry.Value); ok {
			for _, f := range fields {
				switch f.Key {
				case "types":
					event.Types = stringList(f.Value)
				case "branches":
					event.Branches = stringList(f.Value)
				case "schedule":
					event.Schedule = stringList(f.Value)
				}
			}
		}
		events = append(events, event)
	}
	return events
}

// lookupTrigger finds the `on` key of a top-level mapping. YAML 1.1 decoders
// turn a bare `on` key into boolean true, so that form is accepted too.
func lookupTrigger(doc any) (any, bool) {
	entries, ok := mappingEntries(doc)
	if !ok {
		return nil, false
	}
	for _, entry := range entries {
		switch k := entry.Key.(type) {
		case string:
			if k == "on" {
				return entry.Value, true
			}
		case bool:
			if k {
				return entry.Value, true
			}
		}
	}
	return nil, false
}

// mappingEntries flattens the mapping shapes a decoder may produce into an
// ordered entry list. Ordered maps keep their source order; Go maps are
// sorted by key so repeated calls agree.
func mappingEntries(v any) ([]yaml.MapItem, bool) {
	switch m := v.(type) {
	case yaml.MapSlice:
		return m, true
	case *yaml.MapSlice:
		if m == nil {
			return nil, false
		}
		return *m, true
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]yaml.MapItem, 0, len(keys))
		for _, k := range keys {
			items = append(items, yaml.MapItem{Key: k, Value: m[k]})
		}
		return items, true
	case map[any]any:
		items := make([]yaml.MapItem, 0, len(m))
		for k, val := range m {
			items = append(items, yaml.MapItem{Key: k, Value: val})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return fmt.Sprint(items[i].Key) < fmt.Sprint(items[j].Key)
		})
		return items, true
	}
	return nil, false
}

// stringList copies a sub-field verbatim. A lone scalar counts as a
// one-element list; nested mappings and sequences are dropped.
func stringList(v any) []string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return []string{s}
	case []string:
		return append([]string{}, s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := scalarString(item); ok {
				out = append(out, str)
			}
		}
		return out
	}
	if str, ok := scalarString(v); ok {
		return []string{str}
	}
	return nil
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s), true
	}
	return "", false
}
