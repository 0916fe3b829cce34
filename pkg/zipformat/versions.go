package zipformat

// Signature is a four-byte magic value that opens every ZIP record.
type Signature = [4]byte

var (
	localHeaderSignature    = Signature{'P', 'K', 3, 4}
	centralHeaderSignature  = Signature{'P', 'K', 1, 2}
	eocd64Signature         = Signature{'P', 'K', 6, 6}
	eocd64LocatorSignature  = Signature{'P', 'K', 6, 7}
	eocdSignature           = Signature{'P', 'K', 5, 6}
)

// Version-needed values, in the ZIP format's fixed-point 10x encoding
// (2.0 == 20, 4.5 == 45).
const (
	VersionClassic = 20
	VersionZIP64   = 45

	// CreatorUnix marks the high byte of version-made-by as
	// originating from a Unix host, per APPNOTE.TXT's creator table.
	CreatorUnix = 3 << 8

	// MethodDeflate is the only compression method this archive
	// writer produces.
	MethodDeflate = 8

	// FlagMaximumCompression is general-purpose bit 1, set on every
	// entry written by this package to reflect the Z_BEST_COMPRESSION
	// DEFLATE setting used to produce it.
	FlagMaximumCompression = 0x0002
)
