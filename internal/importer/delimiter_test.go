package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma separated", "date,amount,description\n1,2,3", ','},
		{"semicolon separated", "date;amount;description\n1;2;3", ';'},
		{"semicolon wins tie", "a;b,c;d\nrows", ';'},
		{"comma wins majority", "a,b,c;d\nrows", ','},
		{"single column defaults to comma", "amount\n42", ','},
		{"empty input defaults to comma", "", ','},
		{"only first line counts", "a,b\nx;y;z;w", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.text))
		})
	}
}
