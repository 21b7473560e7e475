package telemetry

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func item(ts string, extra map[string]types.AttributeValue) map[string]types.AttributeValue {
	m := map[string]types.AttributeValue{
		"timestamp": &types.AttributeValueMemberS{Value: ts},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func TestRenderSortedOrdersNewestFirst(t *testing.T) {
	items := []map[string]types.AttributeValue{
		item("3", nil),
		item("1", nil),
		item("2", nil),
	}

	got := renderSorted(items)

	want := []string{"3", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i]["timestamp"] != w {
			t.Errorf("item %d: timestamp = %v, want %s", i, got[i]["timestamp"], w)
		}
	}
}

func TestRenderSortedSkipsCorruptTimestamps(t *testing.T) {
	items := []map[string]types.AttributeValue{
		item("100", nil),
		item("not-a-number", nil),
		item("", nil),
		item("12.5", nil),
		{"humidity": &types.AttributeValueMemberN{Value: "50"}}, // no timestamp at all
	}

	got := renderSorted(items)

	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0]["timestamp"] != "100" {
		t.Errorf("timestamp = %v, want 100", got[0]["timestamp"])
	}
}

func TestRenderSortedEmptyScan(t *testing.T) {
	got := renderSorted(nil)
	if got == nil {
		t.Fatal("want empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("got %d items, want 0", len(got))
	}
}

func TestRenderAttrNumberCoercion(t *testing.T) {
	tests := []struct {
		name string
		attr types.AttributeValue
		want interface{}
	}{
		{"integral number becomes int", &types.AttributeValueMemberN{Value: "91"}, int64(91)},
		{"trailing zeros stay integral", &types.AttributeValueMemberN{Value: "91.00"}, int64(91)},
		{"fractional number becomes float", &types.AttributeValueMemberN{Value: "23.5"}, 23.5},
		{"bool passes through", &types.AttributeValueMemberBOOL{Value: true}, true},
		{"string passes through", &types.AttributeValueMemberS{Value: "on"}, "on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := renderAttr(tt.attr)
			if !ok {
				t.Fatal("renderAttr() not ok")
			}
			if got != tt.want {
				t.Errorf("renderAttr() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestRenderAttrBadNumberDropped(t *testing.T) {
	if _, ok := renderAttr(&types.AttributeValueMemberN{Value: "garbage"}); ok {
		t.Error("corrupt number attribute should be dropped")
	}
}

func TestRenderItemList(t *testing.T) {
	rendered := renderItem(map[string]types.AttributeValue{
		"abnormal_reasons": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "humidity"},
			&types.AttributeValueMemberS{Value: "gas"},
		}},
	})

	reasons, ok := rendered["abnormal_reasons"].([]interface{})
	if !ok || len(reasons) != 2 || reasons[0] != "humidity" || reasons[1] != "gas" {
		t.Errorf("abnormal_reasons = %v", rendered["abnormal_reasons"])
	}
}
