package importer

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "windows endings", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "classic mac endings", input: "a\rb\r", want: "a\nb\n"},
		{name: "mixed endings", input: "a\r\nb\rc\n", want: "a\nb\nc\n"},
		{name: "already unix", input: "a\nb\n", want: "a\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNewlines([]byte(tt.input)); got != tt.want {
				t.Errorf("NormalizeNewlines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripLeading(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		delim      rune
		wantBody   string
		wantHeader string
		wantErr    error
	}{
		{
			name:       "header on first line",
			text:       "ProductCode;Stuks;Prijs\nA1;1;2\n",
			delim:      ';',
			wantBody:   "A1;1;2\n",
			wantHeader: "productcode;stuks;prijs",
		},
		{
			name:       "blank and comment lines skipped",
			text:       "\n# export 2024\n;;;\nproductcode;stuks;prijs\nA1;1;2\n",
			delim:      ';',
			wantBody:   "A1;1;2\n",
			wantHeader: "productcode;stuks;prijs",
		},
		{
			name:       "delimiter-first line skipped",
			text:       ",note,\nproductcode,stuks,prijs\n",
			delim:      ',',
			wantBody:   "",
			wantHeader: "productcode,stuks,prijs",
		},
		{
			name:    "only skippable lines",
			text:    "# a\n\n;x\n",
			delim:   ';',
			wantErr: ErrNoHeader,
		},
		{
			name:    "empty input",
			text:    "",
			delim:   ';',
			wantErr: ErrNoHeader,
		},
		{
			name:       "header without trailing newline",
			text:       "productcode;stuks;prijs",
			delim:      ';',
			wantBody:   "",
			wantHeader: "productcode;stuks;prijs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, header, err := StripLeading(tt.text, tt.delim)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("StripLeading() err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("StripLeading() unexpected error: %v", err)
			}
			if header != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{
			name:   "no empty cells",
			fields: []string{"productcode", "stuks", "prijs"},
			want:   []string{"productcode", "stuks", "prijs"},
		},
		{
			name:   "truncated at first empty cell",
			fields: []string{"productcode", "stuks", "prijs", "", "export notes"},
			want:   []string{"productcode", "stuks", "prijs"},
		},
		{
			name:   "leading empty cell empties the header",
			fields: []string{"", "productcode"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeader(tt.fields)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeHeader(%v) = %v, want %v", tt.fields, got, tt.want)
			}
		})
	}
}
