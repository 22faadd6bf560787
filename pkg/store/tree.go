package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// toNode converts an arbitrary Go value into the generic JSON tree form
// (maps, slices, json.Number, strings, bools, nil).
func toNode(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode value: %w", err)
		}
		raw = encoded
	}

	return decodeNode(raw)
}

func decodeNode(raw []byte) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var node interface{}
	if err := dec.Decode(&node); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return prune(node), nil
}

// lookup walks segs from node.
func lookup(node interface{}, segs []string) (interface{}, bool) {
	current := node
	for _, seg := range segs {
		switch typed := current.(type) {
		case map[string]interface{}:
			next, ok := typed[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// assign returns node with value written at segs. A nil value removes the
// entry and any parents left empty by the removal.
func assign(node interface{}, segs []string, value interface{}) interface{} {
	if len(segs) == 0 {
		return prune(value)
	}

	obj := asObject(node)
	key := segs[0]
	child := assign(obj[key], segs[1:], value)
	if child == nil {
		delete(obj, key)
	} else {
		obj[key] = child
	}

	if len(obj) == 0 {
		return nil
	}
	return obj
}

// asObject returns node as an object, converting arrays to index keyed maps
// and replacing scalars.
func asObject(node interface{}) map[string]interface{} {
	switch typed := node.(type) {
	case map[string]interface{}:
		return typed
	case []interface{}:
		obj := make(map[string]interface{}, len(typed))
		for i, item := range typed {
			if item != nil {
				obj[strconv.Itoa(i)] = item
			}
		}
		return obj
	default:
		return map[string]interface{}{}
	}
}

// prune drops null members and empty objects so absent and empty read the same.
func prune(node interface{}) interface{} {
	switch typed := node.(type) {
	case map[string]interface{}:
		for key, child := range typed {
			cleaned := prune(child)
			if cleaned == nil {
				delete(typed, key)
				continue
			}
			typed[key] = cleaned
		}
		if len(typed) == 0 {
			return nil
		}
		return typed
	case []interface{}:
		empty := true
		for i, child := range typed {
			typed[i] = prune(child)
			if typed[i] != nil {
				empty = false
			}
		}
		if empty {
			return nil
		}
		return typed
	default:
		return node
	}
}

func encodeNode(node interface{}) (json.RawMessage, error) {
	if node == nil {
		return nil, nil
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode node: %w", err)
	}
	return raw, nil
}
