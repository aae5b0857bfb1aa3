package mail

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestZstdRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat("compressible email body text ", 100))

	compressed, err := compressZstd(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("compression did not shrink data: %d >= %d", len(compressed), len(original))
	}

	decompressed, err := decompressZstd(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeEmailSmallRecordStaysJSON(t *testing.T) {
	email := &Email{ID: "x", Sender: "a@b.c", Status: StatusSafe, ReceivedAt: time.Now()}

	encoded, err := encodeEmail(email)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "json:") {
		t.Fatalf("small record should stay json, got prefix %q", encoded[:4])
	}

	decoded, err := decodeEmail(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "x" {
		t.Fatalf("decoded id = %q", decoded.ID)
	}
}

func TestEncodeEmailLargeRecordCompressed(t *testing.T) {
	email := &Email{
		ID:         "y",
		BodyPlain:  strings.Repeat("long repetitive email body ", 200),
		Status:     StatusSafe,
		ReceivedAt: time.Now(),
	}

	encoded, err := encodeEmail(email)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "zst:") {
		t.Fatalf("large record should be compressed, got prefix %q", encoded[:4])
	}

	decoded, err := decodeEmail(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.BodyPlain != email.BodyPlain {
		t.Fatalf("body not preserved")
	}
}
