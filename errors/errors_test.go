package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhasePatch,
				Kind:     KindRangeOverflow,
				Function: "fib",
				Offset:   0x12,
				HasSite:  true,
				Detail:   "does not fit",
			},
			contains: []string{"[patch]", "range_overflow", "fib+0x12", "does not fit"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLayout,
				Kind:   KindInvalidInput,
				Detail: "bad manifest",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[layout]", "invalid_input", "bad manifest", "caused by", "underlying error"},
		},
		{
			name: "offset without function",
			err: &Error{
				Phase:   PhaseEmit,
				Kind:    KindDuplicateSite,
				Offset:  64,
				HasSite: true,
			},
			contains: []string{"[emit]", "duplicate_site", "0x40"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhasePatch,
		Kind:  KindOutOfBounds,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	a := RangeOverflow("f", 4, 1<<40, 4)
	b := &Error{Phase: PhasePatch, Kind: KindRangeOverflow}
	c := &Error{Phase: PhasePatch, Kind: KindPlaceholderDirty}

	if !errors.Is(a, b) {
		t.Error("same phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("different kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("io failure")
	err := New(PhaseEmit, KindInvalidData).
		Function("main").
		Offset(0x100).
		Value(42).
		Cause(cause).
		Detail("section %s truncated", "RELOC").
		Build()

	if err.Phase != PhaseEmit || err.Kind != KindInvalidData {
		t.Errorf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if err.Function != "main" || err.Offset != 0x100 || !err.HasSite {
		t.Errorf("site: got %s+0x%x (set=%v)", err.Function, err.Offset, err.HasSite)
	}
	if err.Detail != "section RELOC truncated" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		phase Phase
		kind  Kind
	}{
		{RangeOverflow("f", 1, 300, 1), PhasePatch, KindRangeOverflow},
		{PlaceholderDirty("f", 2), PhasePatch, KindPlaceholderDirty},
		{OutOfBounds("f", 3, 4, 5), PhasePatch, KindOutOfBounds},
		{InvalidReference("f", 4, nil), PhaseResolve, KindInvalidReference},
		{NotRelocatable("f", 5), PhaseResolve, KindNotRelocatable},
		{DuplicateSite(6), PhaseEmit, KindDuplicateSite},
		{UnknownSymbol(PhaseLayout, "sym"), PhaseLayout, KindUnknownSymbol},
		{InvalidInput(PhaseLayout, "bad %s", "field"), PhaseLayout, KindInvalidInput},
	}

	for _, tt := range tests {
		if tt.err.Phase != tt.phase {
			t.Errorf("%s: phase got %s, want %s", tt.err.Kind, tt.err.Phase, tt.phase)
		}
		if tt.err.Kind != tt.kind {
			t.Errorf("kind got %s, want %s", tt.err.Kind, tt.kind)
		}
	}
}
