package core

import (
	"errors"
	"testing"
)

func TestLoadErrorWrapping(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"import", WrapImport(base), ImportError},
		{"io", WrapIo(base), IoError},
		{"format", WrapFormat(base), FormatError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var le *LoadError
			if !errors.As(tt.err, &le) {
				t.Fatalf("errors.As failed for %v", tt.err)
			}
			if le.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", le.Kind, tt.kind)
			}
			if !errors.Is(tt.err, base) {
				t.Errorf("errors.Is(%v, base) = false, want true", tt.err)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if WrapImport(nil) != nil {
		t.Error("WrapImport(nil) should return nil")
	}
	if WrapIo(nil) != nil {
		t.Error("WrapIo(nil) should return nil")
	}
	if WrapFormat(nil) != nil {
		t.Error("WrapFormat(nil) should return nil")
	}
}
