package filesig

import (
	"testing"
)

func TestByteMatcher(t *testing.T) {
	tests := []struct {
		name    string
		matcher ByteMatcher
		input   byte
		want    bool
		str     string
	}{
		{"exact hit", Exact(0x4B), 0x4B, true, "4B"},
		{"exact miss", Exact(0x4B), 0x4C, false, "4B"},
		{"any", Any(), 0x00, true, "??"},
		{"set hit", OneOf(0x0A, 0x0D), 0x0D, true, "[0A|0D]"},
		{"set miss", OneOf(0x0A, 0x0D), 0x20, false, "[0A|0D]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.Accepts(tt.input); got != tt.want {
				t.Errorf("Accepts(%#x) = %v, want %v", tt.input, got, tt.want)
			}
			if got := tt.matcher.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}

	if !Any().IsWildcard() || Exact(0).IsWildcard() {
		t.Error("IsWildcard() mismatch")
	}
}

func TestMatch(t *testing.T) {
	wave := Seq(Text("RIFF"), Wild(4), Text("WAVE"))

	tests := []struct {
		name    string
		data    string
		offset  int64
		pattern Pattern
		want    bool
	}{
		{"exact at start", "PK\x03\x04rest", 0, Bytes(0x50, 0x4B, 0x03, 0x04), true},
		{"exact mismatch", "PK\x05\x06rest", 0, Bytes(0x50, 0x4B, 0x03, 0x04), false},
		{"wildcards", "RIFF\x10\x20\x30\x40WAVEfmt ", 0, wave, true},
		{"wildcards wrong form", "RIFF\x10\x20\x30\x40AVI LIST", 0, wave, false},
		{"offset", "xxxxHELLO", 4, Text("HELLO"), true},
		{"too short", "PK\x03", 0, Bytes(0x50, 0x4B, 0x03, 0x04), false},
		{"offset past end", "abc", 10, Text("a"), false},
		{"from end", "data.....TRAILR", -6, Text("TRAILR"), true},
		{"from end mismatch", "data.....TRAILX", -6, Text("TRAILR"), false},
		{"from end clamps to start", "TRA", -6, Text("TRA"), true},
		{"from end clamped too short", "TR", -6, Text("TRA"), false},
		{"byte set", "\x0A\x03", 0, Seq(Exact(0x0A), OneOf(0x02, 0x03)), true},
		{"empty content", "", 0, Text("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(NewBytesSource([]byte(tt.data)), tt.offset, tt.pattern)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatternString(t *testing.T) {
	p := Seq(Text("BZh"), Any(), OneOf(0x31, 0x32))
	if got, want := p.String(), "42 5A 68 ?? [31|32]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSeqPanicsOnUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Seq() with a string argument should panic")
		}
	}()
	Seq("not a pattern")
}
