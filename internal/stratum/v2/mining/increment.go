package mining

// incrementBytesBE treats buf as a big-endian counter and adds one in
// place. Iteration runs from the least-significant byte (the end of the
// slice) toward the most-significant. If every byte was already 0xFF, the
// whole slice is restored to 0xFF (never left at zero) and the call fails:
// an exhausted range must stay observably exhausted, not silently wrap.
func incrementBytesBE(buf []byte) error {
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] != 0xFF {
			buf[i]++
			return nil
		}
		buf[i] = 0x00
	}
	for i := range buf {
		buf[i] = 0xFF
	}
	return ErrExtranonceExhausted
}
