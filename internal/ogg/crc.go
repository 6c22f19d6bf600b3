package ogg

// crcPolynomial is the generator used by ogg, applied MSB first with no reflection.
const crcPolynomial = 0x04c11db7

//nolint:gochecknoglobals // Lookup table computed once.
var crcTable = func() [256]uint32 {
	var table [256]uint32

	for i := range table {
		r := uint32(i) << 24 //nolint:gosec // i < 256.

		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ crcPolynomial
			} else {
				r <<= 1
			}
		}

		table[i] = r
	}

	return table
}()

// Checksum computes the ogg CRC of a page whose checksum field is zeroed.
// The field at offset 22 is treated as zero regardless of its contents.
func Checksum(page []byte) uint32 {
	var crc uint32

	for i, b := range page {
		if i >= checksumOffset && i < checksumOffset+4 {
			b = 0
		}

		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}

	return crc
}
