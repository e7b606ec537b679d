package utils

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseAssigneeIDs normalizes the assignee-id field of a task payload
// into a flat id list. Clients serialize the field inconsistently, so
// four input shapes are accepted:
//
//	[1, 2, 3] or ["1", "2", "3"]   a JSON array
//	"[1,2,3]"                      a JSON-encoded array string
//	"1,2,3"                        a comma-separated string
//	1 or "1"                       a single scalar
//
// Order is preserved and empty/unparsable entries are dropped. The list
// is not deduplicated.
func ParseAssigneeIDs(raw interface{}) []uint {
	switch v := raw.(type) {
	case nil:
		return nil
	case []interface{}:
		return collectIDs(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		var arr []interface{}
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return collectIDs(arr)
		}
		parts := lo.Map(strings.Split(s, ","), func(p string, _ int) interface{} {
			return strings.TrimSpace(p)
		})
		return collectIDs(parts)
	default:
		return collectIDs([]interface{}{v})
	}
}

func collectIDs(vals []interface{}) []uint {
	return lo.FilterMap(vals, func(v interface{}, _ int) (uint, bool) {
		id := toID(v)
		return id, id != 0
	})
}

func toID(v interface{}) uint {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return uint(n)
		}
	case int:
		if n > 0 {
			return uint(n)
		}
	case uint:
		return n
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 32)
		if err == nil {
			return uint(u)
		}
	case string:
		u, err := strconv.ParseUint(strings.TrimSpace(n), 10, 32)
		if err == nil {
			return uint(u)
		}
	}
	return 0
}
