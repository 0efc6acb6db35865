package csv

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single row",
			input: "2953-20,M18 FUEL Impact Driver",
			want:  [][]string{{"2953-20", "M18 FUEL Impact Driver"}},
		},
		{
			name:  "multiple rows with trailing newline",
			input: "A,1\nB,2\n",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "trailing row without newline",
			input: "A,1\nB,2",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "tab delimited",
			input: "A\t1\nB\t2",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "crlf line endings",
			input: "A,1\r\nB,2\r\n",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "quoted field with comma",
			input: `"Drill, cordless",desc`,
			want:  [][]string{{"Drill, cordless", "desc"}},
		},
		{
			name:  "escaped quote inside quoted field",
			input: `"Drill, 1/2""",desc`,
			want:  [][]string{{`Drill, 1/2"`, "desc"}},
		},
		{
			name:  "quoted field with embedded newline",
			input: "A,\"line one\nline two\"\nB,2",
			want:  [][]string{{"A", "line one\nline two"}, {"B", "2"}},
		},
		{
			name:  "fields are trimmed",
			input: "  A  ,  1  ",
			want:  [][]string{{"A", "1"}},
		},
		{
			name:  "blank lines produce no rows",
			input: "A,1\n\n\nB,2\n",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "whitespace-only line produces no row",
			input: "A,1\n   \nB,2",
			want:  [][]string{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "whitespace-only input",
			input: "   \n  \n",
			want:  nil,
		},
		{
			name:  "row with empty second field",
			input: "A,\nB,2",
			want:  [][]string{{"A", ""}, {"B", "2"}},
		},
		{
			name:  "leading empty field still emits the row",
			input: ",desc only\nB,2",
			want:  [][]string{{"", "desc only"}, {"B", "2"}},
		},
		{
			name:  "mixed comma and tab in one row",
			input: "A\t1,extra",
			want:  [][]string{{"A", "1", "extra"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}
