package zipformat

import "hash/crc32"

// CRC32 accumulates the standard ZIP polynomial (ITU-T V.42 / PKZIP)
// incrementally across however many page blobs make up one member.
type CRC32 struct {
	sum uint32
}

// Update folds p into the running checksum.
func (c *CRC32) Update(p []byte) {
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p)
}

// Sum32 returns the checksum of everything fed so far.
func (c *CRC32) Sum32() uint32 {
	return c.sum
}
