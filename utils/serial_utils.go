package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomInt32 generates a secure random 32-bit integer
func RandomInt32() int32 {
	var num int32
	err := binary.Read(rand.Reader, binary.BigEndian, &num)
	if err != nil {
		panic("generate random int32 failed")
	}

	return num
}

// GenerateSerialNumber builds a fleet serial of the form SN-XXXXXXXX.
// Uniqueness is still enforced at the store, this only picks a candidate.
func GenerateSerialNumber() string {
	return fmt.Sprintf("SN-%08X", uint32(RandomInt32()))
}
