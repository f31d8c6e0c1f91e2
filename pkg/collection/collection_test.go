package collection_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shashiranjanraj/genosys/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, func(n int) int { return n * n })
	if !reflect.DeepEqual(got, []int{1, 4, 9}) {
		t.Errorf("Map = %v", got)
	}
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]string{"a", "bb", "ccc"}, func(s string) bool { return len(s) > 1 })
	if !reflect.DeepEqual(got, []string{"bb", "ccc"}) {
		t.Errorf("Filter = %v", got)
	}
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !ok || v != 2 {
		t.Errorf("First = %v, %v; want 2, true", v, ok)
	}

	_, ok = collection.First([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	if ok {
		t.Error("First found a match in a slice with none")
	}
}

func TestGroupBy(t *testing.T) {
	got := collection.GroupBy([]string{"apple", "avocado", "banana"}, func(s string) string {
		return s[:1]
	})
	if len(got["a"]) != 2 || len(got["b"]) != 1 {
		t.Errorf("GroupBy = %v", got)
	}
}

func TestUnique_PreservesOrder(t *testing.T) {
	got := collection.Unique([]int{3, 1, 3, 2, 1})
	if !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("Unique = %v, want [3 1 2]", got)
	}
}

func TestSortBy_LeavesInputUntouched(t *testing.T) {
	in := []string{"ccc", "a", "bb"}
	got := collection.SortBy(in, func(s string) int { return len(s) })
	if !reflect.DeepEqual(got, []string{"a", "bb", "ccc"}) {
		t.Errorf("SortBy = %v", got)
	}
	if strings.Join(in, ",") != "ccc,a,bb" {
		t.Errorf("SortBy mutated its input: %v", in)
	}
}
