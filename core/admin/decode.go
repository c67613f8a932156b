package admin

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode maps a generic JSON value (as produced by encoding/json or gjson)
// onto out. Connection objects ({edges: [{node}]} or {nodes: []}) decode into
// slices of their nodes, and every slice left nil afterwards is replaced by an
// empty one, so null, absent and empty collections all read the same.
func Decode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			connectionToSliceHook(),
			emptyStringToTimeHook(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		Result:     out,
		TagName:    "mapstructure",
		ZeroFields: true,
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	FillEmptySlices(out)
	return nil
}

// Nodes flattens one connection object into its node list, preserving order.
// Edges without a node are skipped.
func Nodes(conn map[string]interface{}) []interface{} {
	if nodes, ok := conn["nodes"].([]interface{}); ok {
		return nodes
	}
	edges, _ := conn["edges"].([]interface{})
	out := make([]interface{}, 0, len(edges))
	for _, e := range edges {
		edge, ok := e.(map[string]interface{})
		if !ok || edge["node"] == nil {
			continue
		}
		out = append(out, edge["node"])
	}
	return out
}

func isConnection(m map[string]interface{}) bool {
	_, edges := m["edges"]
	_, nodes := m["nodes"]
	return edges || nodes
}

func connectionToSliceHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t.Kind() != reflect.Slice {
			return data, nil
		}
		m, ok := data.(map[string]interface{})
		if !ok || !isConnection(m) {
			return data, nil
		}
		return Nodes(m), nil
	}
}

func emptyStringToTimeHook() mapstructure.DecodeHookFunc {
	timeType := reflect.TypeOf(time.Time{})
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != timeType || f.Kind() != reflect.String {
			return data, nil
		}
		if data.(string) == "" {
			return time.Time{}, nil
		}
		return data, nil
	}
}

// FillEmptySlices walks v (a pointer) and replaces every nil slice reachable
// through exported fields with an empty slice.
func FillEmptySlices(v interface{}) {
	fillEmptySlices(reflect.ValueOf(v))
}

func fillEmptySlices(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			fillEmptySlices(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				fillEmptySlices(f)
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			if v.CanSet() {
				v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			}
			return
		}
		for i := 0; i < v.Len(); i++ {
			fillEmptySlices(v.Index(i))
		}
	}
}
