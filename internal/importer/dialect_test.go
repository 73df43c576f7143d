package importer

import (
	"strings"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{name: "semicolons win", text: "productcode;stuks;prijs\nA1;1;19,99\n", want: ';'},
		{name: "commas win", text: "productcode,stuks,prijs\nA1,1,19.99\n", want: ','},
		{
			name: "comma decimals do not flip a semicolon file",
			text: "productcode;stuks;prijs\nA;1;1,5\nB;2;2,5\nC;3;3,5\nD;4;4,5\nE;5;5,5\nF;6;6,5\nG;7;7,5\n",
			want: ';',
		},
		{name: "no delimiter at all defaults to semicolon", text: "productcode\nA1\n", want: ';'},
		{
			name: "tie resolved by text past the window",
			text: strings.Repeat(" ", sniffWindow) + "a,b\n",
			want: ',',
		},
		{
			name: "tie with nothing past the window defaults to semicolon",
			text: "productcode stuks prijs\n",
			want: ';',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.text); got != tt.want {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectDelimiterWindowBound(t *testing.T) {
	// Commas beyond the sniff window must not influence a counted majority.
	text := "a;b;c\n" + strings.Repeat("x", sniffWindow) + ",,,,,,\n"
	if got := DetectDelimiter(text); got != ';' {
		t.Errorf("DetectDelimiter() = %q, want ';'", got)
	}
}

func TestDefaultDecimalSep(t *testing.T) {
	if got := DefaultDecimalSep(';'); got != ',' {
		t.Errorf("DefaultDecimalSep(';') = %q, want ','", got)
	}
	if got := DefaultDecimalSep(','); got != '.' {
		t.Errorf("DefaultDecimalSep(',') = %q, want '.'", got)
	}
}
