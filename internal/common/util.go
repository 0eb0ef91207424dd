package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop PINs from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// MaskIdentity keeps the last four characters of an identity for logging.
func MaskIdentity(identity string) string {
	const visible = 4
	if len(identity) <= visible {
		return "****"
	}
	masked := make([]byte, len(identity))
	for i := range masked {
		if i < len(identity)-visible {
			masked[i] = '*'
		} else {
			masked[i] = identity[i]
		}
	}
	return string(masked)
}
