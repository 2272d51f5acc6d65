package tools

import (
	"testing"

	"github.com/unnathi84/PatchWise/internal/types"
)

func TestCParserParseFile(t *testing.T) {
	parser, err := NewCParser()
	if err != nil {
		t.Fatalf("Failed to create C parser: %v", err)
	}

	tests := []struct {
		name     string
		content  string
		expected []types.Symbol
	}{
		{
			name: "simple functions",
			content: `#include <stdio.h>

int add(int a, int b) {
    return a + b;
}

void print_hello(void) {
    printf("Hello, World!\n");
}`,
			expected: []types.Symbol{
				{Name: "add", StartLine: 3, EndLine: 5},
				{Name: "print_hello", StartLine: 7, EndLine: 9},
			},
		},
		{
			name: "pointer-returning function",
			content: `char *make_name(int id) {
    return NULL;
}`,
			expected: []types.Symbol{
				{Name: "make_name", StartLine: 1, EndLine: 3},
			},
		},
		{
			name: "structs and typedefs",
			content: `typedef struct {
    int x;
    int y;
} Point;

struct Rectangle {
    Point top_left;
    Point bottom_right;
};

typedef int MyInt;`,
			expected: []types.Symbol{
				{Name: "Point", StartLine: 1, EndLine: 4},
				{Name: "Rectangle", StartLine: 6, EndLine: 9},
				{Name: "MyInt", StartLine: 11, EndLine: 11},
			},
		},
		{
			name: "enum and union",
			content: `enum color {
    RED,
    GREEN,
};

union payload {
    int word;
    char bytes[4];
};`,
			expected: []types.Symbol{
				{Name: "color", StartLine: 1, EndLine: 4},
				{Name: "payload", StartLine: 6, EndLine: 9},
			},
		},
		{
			name: "macros",
			content: `#define MAX_SIZE 100
#define MIN(a, b) ((a) < (b) ? (a) : (b))`,
			expected: []types.Symbol{
				{Name: "MAX_SIZE", StartLine: 1, EndLine: 1},
				{Name: "MIN", StartLine: 2, EndLine: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbols, err := parser.ParseFile("test.c", []byte(tt.content))
			if err != nil {
				t.Fatalf("ParseFile failed: %v", err)
			}

			if len(symbols) != len(tt.expected) {
				t.Errorf("Expected %d symbols, got %d", len(tt.expected), len(symbols))
				for i, s := range symbols {
					t.Logf("Symbol %d: %+v", i, s)
				}
				return
			}

			for i, expected := range tt.expected {
				symbol := symbols[i]
				if symbol.Name != expected.Name {
					t.Errorf("Symbol %d name: expected %s, got %s", i, expected.Name, symbol.Name)
				}
				if symbol.StartLine != expected.StartLine {
					t.Errorf("Symbol %d start line: expected %d, got %d", i, expected.StartLine, symbol.StartLine)
				}
				if symbol.EndLine != expected.EndLine {
					t.Errorf("Symbol %d end line: expected %d, got %d", i, expected.EndLine, symbol.EndLine)
				}
			}
		})
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"drivers/net/e1000.c", "drivers.net.e1000"},
		{"include/uapi/linux/fs.h", "include.uapi.linux.fs"},
		{"main.c", "main"},
	}

	for _, tt := range tests {
		if got := moduleName(tt.path); got != tt.expected {
			t.Errorf("moduleName(%q) = %q; want %q", tt.path, got, tt.expected)
		}
	}
}
