// Package content classifies loosely shaped values and renders them into a
// tree of display nodes.
//
// Values come from static data or from generated JSON: strings, lists of
// {header, text} pairs, option sets keyed optionA..optionZ, recommendation
// blocks and arbitrary keyed maps. Every value maps to exactly one Kind, and
// every leaf string is scanned for section, case and statute references.
package content

import (
	"reflect"
	"regexp"
	"sort"
)

// Kind is the shape a value was classified as.
type Kind string

const (
	KindEmpty          Kind = "empty"
	KindPrerendered    Kind = "prerendered"
	KindHeadedItemList Kind = "headed_item_list"
	KindPlainList      Kind = "plain_list"
	KindRecommendation Kind = "recommendation_block"
	KindOptionSet      Kind = "option_set"
	KindKeyValue       Kind = "key_value_block"
	KindLineList       Kind = "line_list"
)

const (
	fieldHeader                = "header"
	fieldText                  = "text"
	fieldTitle                 = "title"
	fieldRecommendationSummary = "recommendationSummary"
	fieldImplementationSteps   = "implementationSteps"
	fieldSuggestedLanguage     = "suggestedLanguage"
	fieldError                 = "error"
)

var optionKeyPattern = regexp.MustCompile(`^option[A-Z]$`)

// Classify returns the single Kind for v. Lists and maps that match no
// specific shape fall back to PlainList and KeyValueBlock; strings and other
// scalars are LineLists.
func Classify(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindEmpty
	case *Node:
		if x == nil {
			return KindEmpty
		}
		return KindPrerendered
	case Node:
		return KindPrerendered
	case *Object:
		if x == nil {
			return KindEmpty
		}
	}

	if list, ok := asList(v); ok {
		if len(list) > 0 {
			if first, ok := asObject(list[0]); ok && first.Has(fieldHeader) {
				return KindHeadedItemList
			}
		}
		return KindPlainList
	}

	if obj, ok := asObject(v); ok {
		if obj.Has(fieldRecommendationSummary) && obj.Has(fieldImplementationSteps) {
			return KindRecommendation
		}
		if len(optionKeys(obj)) > 0 {
			return KindOptionSet
		}
		return KindKeyValue
	}

	return KindLineList
}

// optionKeys returns the option<Letter> keys whose values are maps, in key
// order.
func optionKeys(obj *Object) []string {
	var keys []string
	for _, k := range obj.Keys() {
		if !optionKeyPattern.MatchString(k) {
			continue
		}
		v, _ := obj.Get(k)
		if _, ok := asObject(v); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// asObject normalizes the keyed map types the renderer accepts. Plain Go maps
// have no order, so their keys are sorted.
func asObject(v any) (*Object, bool) {
	switch m := v.(type) {
	case *Object:
		return m, m != nil
	case Object:
		return &m, true
	case map[string]any:
		obj := NewObject()
		for _, k := range sortedKeys(m) {
			obj.Set(k, m[k])
		}
		return obj, true
	case map[string]string:
		obj := NewObject()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, m[k])
		}
		return obj, true
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asList normalizes slices to []any.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []*Object:
		out := make([]any, len(l))
		for i, o := range l {
			out[i] = o
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
