package pathutil

import (
	"reflect"
	"strconv"
	"testing"
)

func TestSplitJoin(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "simple", path: "filter/rules/rule", want: []string{"filter", "rules", "rule"}},
		{name: "leading and trailing slashes", path: "/services/dns/", want: []string{"services", "dns"}},
		{name: "single segment", path: "system", want: []string{"system"}},
		{name: "empty", path: "", want: nil},
		{name: "only slashes", path: "///", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if len(tt.want) > 0 {
				joined := Join(tt.want...)
				if !reflect.DeepEqual(Split(joined), tt.want) {
					t.Errorf("Join(Split(%q)) = %q, segments changed", tt.path, joined)
				}
			}
		})
	}
}

func TestLeafNamespace(t *testing.T) {
	tests := []struct {
		path      string
		leaf      string
		namespace string
	}{
		{path: "filter/rules/rule", leaf: "rule", namespace: "filter/rules"},
		{path: "system", leaf: "system", namespace: ""},
		{path: "", leaf: "", namespace: ""},
		{path: "a/b", leaf: "b", namespace: "a"},
	}

	for _, tt := range tests {
		if got := Leaf(tt.path); got != tt.leaf {
			t.Errorf("Leaf(%q) = %q, want %q", tt.path, got, tt.leaf)
		}
		if got := Namespace(tt.path); got != tt.namespace {
			t.Errorf("Namespace(%q) = %q, want %q", tt.path, got, tt.namespace)
		}
	}
}

func TestGet(t *testing.T) {
	tree := map[string]any{
		"filter": map[string]any{
			"rules": map[string]any{
				"rule": []any{
					map[string]any{"name": "allow"},
					map[string]any{"name": "deny"},
				},
			},
		},
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "map value", path: "filter/rules/rule/0/name", want: "allow", wantOK: true},
		{name: "second element", path: "filter/rules/rule/1/name", want: "deny", wantOK: true},
		{name: "missing key", path: "filter/nat", want: nil, wantOK: false},
		{name: "index out of range", path: "filter/rules/rule/5", want: nil, wantOK: false},
		{name: "negative index", path: "filter/rules/rule/-1", want: nil, wantOK: false},
		{name: "descend into scalar", path: "filter/rules/rule/0/name/x", want: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Get(tree, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSetCreatesIntermediates(t *testing.T) {
	tree := map[string]any{}

	if err := Set(tree, "filter/rules/rule/0", map[string]any{"name": "a"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Set(tree, "filter/rules/rule/1", map[string]any{"name": "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := Count(tree, "filter/rules/rule"); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	got, ok := Get(tree, "filter/rules/rule/1/name")
	if !ok || got != "b" {
		t.Errorf("Get after Set = %v (ok=%v), want \"b\"", got, ok)
	}
}

func TestSetRejectsSparseIndex(t *testing.T) {
	tree := map[string]any{}
	if err := Set(tree, "rules/3", "x"); err == nil {
		t.Fatal("Set with a gapped index should fail")
	}
}

func TestSetReplacesExisting(t *testing.T) {
	tree := map[string]any{"system": map[string]any{"hostname": "old"}}
	if err := Set(tree, "system/hostname", "new"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := Get(tree, "system/hostname")
	if got != "new" {
		t.Errorf("Get = %v, want \"new\"", got)
	}
}

func TestDeleteSpliceKeepsDense(t *testing.T) {
	tree := map[string]any{}
	for i, name := range []string{"a", "b", "c"} {
		if err := Set(tree, Join("rules", strconv.Itoa(i)), map[string]any{"name": name}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := Delete(tree, "rules/1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := Count(tree, "rules"); got != 2 {
		t.Fatalf("Count after delete = %d, want 2", got)
	}
	got, _ := Get(tree, "rules/1/name")
	if got != "c" {
		t.Errorf("element after splice = %v, want \"c\"", got)
	}
}

func TestDeleteMissing(t *testing.T) {
	tree := map[string]any{"a": map[string]any{}}
	if err := Delete(tree, "a/b"); err == nil {
		t.Fatal("Delete of missing path should fail")
	}
}

func TestCopyIsDeep(t *testing.T) {
	original := map[string]any{
		"rules": []any{map[string]any{"name": "a"}},
	}
	cp := Copy(original).(map[string]any)

	if err := Set(cp, "rules/0/name", "changed"); err != nil {
		t.Fatalf("Set on copy: %v", err)
	}
	got, _ := Get(original, "rules/0/name")
	if got != "a" {
		t.Errorf("original mutated through copy: %v", got)
	}
}
