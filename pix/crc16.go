package pix

// CRC-16/CCITT-FALSE as required by the BR Code standard: init 0xFFFF,
// polynomial 0x1021, no reflection, no final xor.
const crcPoly = 0x1021

func checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
