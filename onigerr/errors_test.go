package onigerr

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorRendersName(t *testing.T) {
	err := Newf(ErrInvalidGroupName, "bogus")
	if !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected name in message, got %q", err.Error())
	}
}

func TestErrorRendersRange(t *testing.T) {
	err := AtRange(ErrUnmatchedParen, 3, 4)
	if !strings.Contains(err.Error(), "3..4") {
		t.Fatalf("expected byte range in message, got %q", err.Error())
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := New(ErrNilProgram)
	if !errors.Is(err, ErrNilProgramSentinel) {
		t.Fatalf("expected errors.Is to match ErrNilProgramSentinel")
	}
}

func TestUnknownCodeDoesNotPanic(t *testing.T) {
	msg := Message(Code(-99999))
	if msg == "" {
		t.Fatalf("expected a non-empty fallback message")
	}
}
