package convert

import (
	"bytes"
	"testing"
)

func TestBENumberToBytes(t *testing.T) {
	if !bytes.Equal(BEUint16ToBytes(uint16(0x0102)), []byte{1, 2}) {
		t.Fatal("BEUint16ToBytes() with invalid number")
	}
	if !bytes.Equal(BEUint32ToBytes(uint32(0x01020304)), []byte{1, 2, 3, 4}) {
		t.Fatal("BEUint32ToBytes() with invalid number")
	}
	if !bytes.Equal(BEUint64ToBytes(uint64(0x0102030405060708)), []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatal("BEUint64ToBytes() with invalid number")
	}
}

func TestBEBytesToNumber(t *testing.T) {
	if BEBytesToUint16([]byte{1, 2}) != 0x0102 {
		t.Fatal("BEBytesToUint16() with invalid bytes")
	}
	if BEBytesToUint32([]byte{1, 2, 3, 4}) != 0x01020304 {
		t.Fatal("BEBytesToUint32() with invalid bytes")
	}
	if BEBytesToUint64([]byte{1, 2, 3, 4, 5, 6, 7, 8}) != 0x0102030405060708 {
		t.Fatal("BEBytesToUint64() with invalid bytes")
	}
}

func TestLENumberToBytes(t *testing.T) {
	if !bytes.Equal(LEUint16ToBytes(uint16(0x0102)), []byte{2, 1}) {
		t.Fatal("LEUint16ToBytes() with invalid number")
	}
	if !bytes.Equal(LEUint32ToBytes(uint32(0x01020304)), []byte{4, 3, 2, 1}) {
		t.Fatal("LEUint32ToBytes() with invalid number")
	}
}

func TestLEBytesToNumber(t *testing.T) {
	if LEBytesToUint16([]byte{2, 1}) != 0x0102 {
		t.Fatal("LEBytesToUint16() with invalid bytes")
	}
	if LEBytesToUint32([]byte{4, 3, 2, 1}) != 0x01020304 {
		t.Fatal("LEBytesToUint32() with invalid bytes")
	}
}

func TestNumberRoundTrip(t *testing.T) {
	if BEBytesToUint32(BEUint32ToBytes(0xFFEEDDCC)) != 0xFFEEDDCC {
		t.Fatal("big endian uint32 round trip")
	}
	if BEBytesToUint64(BEUint64ToBytes(0xFFEEDDCCBBAA9988)) != 0xFFEEDDCCBBAA9988 {
		t.Fatal("big endian uint64 round trip")
	}
	if LEBytesToUint32(LEUint32ToBytes(0xFFEEDDCC)) != 0xFFEEDDCC {
		t.Fatal("little endian uint32 round trip")
	}
}
