package telemetry

import (
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// renderSorted converts raw DynamoDB items into JSON-ready maps, newest
// first. Items whose timestamp attribute is not an all-digit string are
// legacy/corrupt rows and are skipped rather than failing the whole query.
func renderSorted(items []map[string]types.AttributeValue) []map[string]interface{} {
	type keyed struct {
		ts   int64
		item map[string]interface{}
	}

	kept := make([]keyed, 0, len(items))

	for _, item := range items {
		tsAttr, ok := item["timestamp"].(*types.AttributeValueMemberS)
		if !ok || !isDigits(tsAttr.Value) {
			continue
		}
		ts, err := strconv.ParseInt(tsAttr.Value, 10, 64)
		if err != nil {
			continue
		}
		kept = append(kept, keyed{ts: ts, item: renderItem(item)})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].ts > kept[j].ts
	})

	out := make([]map[string]interface{}, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.item)
	}
	return out
}

func renderItem(item map[string]types.AttributeValue) map[string]interface{} {
	out := make(map[string]interface{}, len(item))
	for name, attr := range item {
		if v, ok := renderAttr(attr); ok {
			out[name] = v
		}
	}
	return out
}

// renderAttr collapses the DynamoDB value variants to native JSON ones.
// Numbers are stored with arbitrary precision, so the integer-vs-float call
// is made exactly once, here: integral values come out as int64, the rest as
// float64. Unrenderable attributes are dropped, not fatal.
func renderAttr(attr types.AttributeValue) (interface{}, bool) {
	switch v := attr.(type) {
	case *types.AttributeValueMemberN:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return nil, false
		}
		if d.IsInteger() {
			return d.IntPart(), true
		}
		f, _ := d.Float64()
		return f, true
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberBOOL:
		return v.Value, true
	case *types.AttributeValueMemberNULL:
		return nil, true
	case *types.AttributeValueMemberSS:
		return v.Value, true
	case *types.AttributeValueMemberL:
		list := make([]interface{}, 0, len(v.Value))
		for _, el := range v.Value {
			if rendered, ok := renderAttr(el); ok {
				list = append(list, rendered)
			}
		}
		return list, true
	case *types.AttributeValueMemberM:
		return renderItem(v.Value), true
	default:
		return nil, false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
