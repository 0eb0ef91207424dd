package common

import (
	"testing"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- MaskIdentity ----------

func TestMaskIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09171234567", "*******4567"},
		{"12345", "*2345"},
		{"1234", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := MaskIdentity(tt.in); got != tt.want {
			t.Fatalf("MaskIdentity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
