package log

import (
	"reflect"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		args      []any
		wantMsg   string
		wantProps []Property
	}{
		{
			name:      "named placeholder",
			template:  "Hello {Name}",
			args:      []any{"World"},
			wantMsg:   "Hello World",
			wantProps: []Property{{Key: "Name", Value: "World"}},
		},
		{
			name:      "positional placeholders",
			template:  "{0} + {1}",
			args:      []any{1, 2},
			wantMsg:   "1 + 2",
			wantProps: []Property{{Key: "0", Value: 1}, {Key: "1", Value: 2}},
		},
		{
			name:      "names consume args in order",
			template:  "{B} then {A}",
			args:      []any{"first", "second"},
			wantMsg:   "first then second",
			wantProps: []Property{{Key: "B", Value: "first"}, {Key: "A", Value: "second"}},
		},
		{
			name:     "escaped braces",
			template: "{{literal}} and }}",
			wantMsg:  "{literal} and }",
		},
		{
			name:      "missing args are left verbatim",
			template:  "got {A} and {B}",
			args:      []any{1},
			wantMsg:   "got 1 and {B}",
			wantProps: []Property{{Key: "A", Value: 1}},
		},
		{
			name:      "extra args become indexed properties",
			template:  "done",
			args:      []any{"x", 7},
			wantMsg:   "done",
			wantProps: []Property{{Key: "0", Value: "x"}, {Key: "1", Value: 7}},
		},
		{
			name:     "capture hints and format suffixes",
			template: "{@Obj} {$Str} {Count,5} {When:HH}",
			args:     []any{"o", "s", 3, "now"},
			wantMsg:  "o s 3 now",
			wantProps: []Property{
				{Key: "Obj", Value: "o"},
				{Key: "Str", Value: "s"},
				{Key: "Count", Value: 3},
				{Key: "When", Value: "now"},
			},
		},
		{
			name:      "invalid placeholder is literal",
			template:  "{ not a name }",
			args:      []any{1},
			wantMsg:   "{ not a name }",
			wantProps: []Property{{Key: "0", Value: 1}},
		},
		{
			name:     "unterminated brace",
			template: "open {brace",
			wantMsg:  "open {brace",
		},
		{
			name:      "repeated names",
			template:  "{A}{A}",
			args:      []any{1, 2},
			wantMsg:   "12",
			wantProps: []Property{{Key: "A", Value: 1}, {Key: "A", Value: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, props := render(tt.template, tt.args)
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
			if !reflect.DeepEqual(props, tt.wantProps) {
				t.Errorf("properties = %v, want %v", props, tt.wantProps)
			}
		})
	}
}

func TestPlaceholderName(t *testing.T) {
	tests := map[string]string{
		"Name":       "Name",
		"@Name":      "Name",
		"$Name":      "Name",
		"user.id":    "user.id",
		"a-b_c":      "a-b_c",
		"0":          "0",
		"Value,-10":  "Value",
		"Date:yyyy":  "Date",
		"":           "",
		"has space":  "",
		"quote\"":    "",
		"@":          "",
		"ünïcode":    "",
	}

	for in, want := range tests {
		if got := placeholderName(in); got != want {
			t.Errorf("placeholderName(%q) = %q, want %q", in, got, want)
		}
	}
}
