package common

import (
	"bytes"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret-password")
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

func TestGenerateRandByteArray_Length(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		if got := len(GenerateRandByteArray(n)); got != n {
			t.Fatalf("len = %d, want %d", got, n)
		}
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	if bytes.Equal(a, b) {
		t.Logf("warning: two 32-byte random buffers are identical; extremely unlikely")
	}
}
