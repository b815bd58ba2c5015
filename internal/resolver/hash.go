package resolver

import "unicode/utf16"

// TextHash is the 31-polynomial string hash over UTF-16 code units with
// 32-bit wrap-around. Distinct strings may share a hash ("Aa" and "BB" do).
func TextHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = 31*h + int32(hi)
			h = 31*h + int32(lo)
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}
