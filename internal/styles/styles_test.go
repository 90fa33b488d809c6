package styles

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGB
		ok    bool
	}{
		{"uppercase", "#FF5500", RGB{255, 85, 0}, true},
		{"lowercase", "#aabbcc", RGB{170, 187, 204}, true},
		{"no hash", "000000", RGB{0, 0, 0}, true},
		{"short", "#FFF", RGB{}, false},
		{"alpha", "#00000080", RGB{}, false},
		{"bad chars", "#GGGGGG", RGB{}, false},
		{"empty", "", RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHex(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseHex(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio("#000000", "#FFFFFF"); math.Abs(got-21) > 0.01 {
		t.Errorf("black on white = %.2f, want 21", got)
	}
	if got := ContrastRatio("#777777", "#777777"); math.Abs(got-1) > 0.001 {
		t.Errorf("same colour = %.2f, want 1", got)
	}
	if got := ContrastRatio("nope", "#FFFFFF"); got != 1 {
		t.Errorf("invalid colour = %.2f, want 1", got)
	}
}

func TestPalettesTextIsReadable(t *testing.T) {
	for name, p := range map[string]ColorPalette{"light": LightPalette, "dark": DarkPalette} {
		if !Readable(p.TextPrimary, 7, p.BgPrimary, p.BgSecondary) {
			t.Errorf("%s: primary text fails 7:1 contrast", name)
		}
		if !Readable(p.TextMuted, 3, p.BgPrimary, p.BgSecondary) {
			t.Errorf("%s: muted text fails 3:1 contrast", name)
		}
	}
}

func TestApply(t *testing.T) {
	defer Apply(false)

	Apply(true)
	if !IsDark() {
		t.Error("IsDark() = false after Apply(true)")
	}
	if TextPrimary != lipgloss.Color(DarkPalette.TextPrimary) {
		t.Errorf("TextPrimary = %v, want dark palette", TextPrimary)
	}

	Apply(false)
	if IsDark() {
		t.Error("IsDark() = true after Apply(false)")
	}
	if TextPrimary != lipgloss.Color(LightPalette.TextPrimary) {
		t.Errorf("TextPrimary = %v, want light palette", TextPrimary)
	}
}

func TestAccentFor_StableAndReadable(t *testing.T) {
	Apply(false)

	ids := []string{"a", "b", "note-123", "550e8400-e29b-41d4-a716-446655440000"}
	for _, id := range ids {
		first := AccentFor(id)
		if again := AccentFor(id); again != first {
			t.Errorf("AccentFor(%q) not stable: %v then %v", id, first, again)
		}
		if !Readable(string(first), minAccentContrast, LightPalette.BgPrimary, LightPalette.BgSecondary) {
			t.Errorf("AccentFor(%q) = %v is not readable", id, first)
		}
	}
}

func TestReadableAccents_FallsBackToPrimary(t *testing.T) {
	p := ColorPalette{
		Primary:     "#7C3AED",
		BgPrimary:   "#FFFFFF",
		BgSecondary: "#FFFFFF",
		Accents:     []string{"#FFFFFE", "#FAFAFA"},
	}
	got := readableAccents(p)
	if len(got) != 1 || got[0] != p.Primary {
		t.Errorf("readableAccents = %v, want [%s]", got, p.Primary)
	}
}
