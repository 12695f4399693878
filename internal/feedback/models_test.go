package feedback

import "testing"

func TestActionItemsRoundTrip(t *testing.T) {
	encoded, err := EncodeActionItems([]string{"a", "b"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	decoded, err := DecodeActionItems(encoded)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "a" || decoded[1] != "b" {
		t.Fatalf("round trip lost order or items: %v", decoded)
	}
}

func TestEncodeActionItems_NilIsEmptyArray(t *testing.T) {
	encoded, err := EncodeActionItems(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if encoded != "[]" {
		t.Fatalf("expected [], got %q", encoded)
	}
}

func TestDecodeActionItems_EmptyString(t *testing.T) {
	decoded, err := DecodeActionItems("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Fatalf("expected empty list, got %v", decoded)
	}
}

func TestDecodeActionItems_RejectsGarbage(t *testing.T) {
	if _, err := DecodeActionItems("not json"); err == nil {
		t.Fatalf("expected error")
	}
}
