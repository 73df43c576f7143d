package importer

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		decSep rune
		want   string
		wantOK bool
	}{
		{name: "plain integer dot sep", input: "42", decSep: '.', want: "42", wantOK: true},
		{name: "plain integer comma sep", input: "42", decSep: ',', want: "42", wantOK: true},
		{name: "dot decimal", input: "19.99", decSep: '.', want: "19.99", wantOK: true},
		{name: "comma decimal", input: "19,99", decSep: ',', want: "19.99", wantOK: true},
		{name: "dot decimal with thousands comma", input: "1,234.56", decSep: '.', want: "1234.56", wantOK: true},
		{name: "comma decimal with thousands dot", input: "1.234,56", decSep: ',', want: "1234.56", wantOK: true},
		{name: "negative comma decimal", input: "-0,5", decSep: ',', want: "-0.5", wantOK: true},
		{name: "surrounding whitespace", input: "  7,5 ", decSep: ',', want: "7.5", wantOK: true},
		{name: "empty is zero", input: "", decSep: '.', want: "0", wantOK: true},
		{name: "whitespace only is zero", input: "   ", decSep: ',', want: "0", wantOK: true},
		{name: "garbage", input: "n/a", decSep: '.', wantOK: false},
		{name: "two decimal points after strip", input: "1.2.3", decSep: '.', wantOK: false},
		{name: "currency symbol", input: "€ 10,00", decSep: ',', wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input, tt.decSep)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q, %q) ok = %v, want %v", tt.input, tt.decSep, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseNumber(%q, %q) = %s, want %s", tt.input, tt.decSep, got, tt.want)
			}
		})
	}
}
