package board

import (
	"errors"
	"testing"
)

func TestParseFENPiecePlacementErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		kind ParseErrorKind
	}{
		{"digit nine", "9/8/8/8/8/8/8/8 w - - 0 1", ErrInvalidDigit},
		{"digit zero", "0/8/8/8/8/8/8/8 w - - 0 1", ErrInvalidDigit},
		{"punctuation", "8/8/8/8/8/8/8/R3K2! w KQ - 0 1", ErrUnexpectedChar},
		{"unknown piece letter", "8/8/8/8/8/8/8/R3X2R w KQ - 0 1", ErrUnknownPiece},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if err == nil {
				t.Fatalf("ParseFEN(%q) succeeded, want error kind %s", tc.fen, tc.kind)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseFEN(%q) error is not a *ParseError: %v", tc.fen, err)
			}
			if parseErr.Kind != tc.kind {
				t.Errorf("ParseFEN(%q) kind = %s, want %s", tc.fen, parseErr.Kind, tc.kind)
			}
		})
	}
}
