package models

import "bytes"

// Filter is an exact-match comparison of Bytes against account data at Offset.
type Filter struct {
	Offset int    `json:"offset"`
	Bytes  []byte `json:"bytes"`
}

func (f Filter) Matches(data []byte) bool {
	if f.Offset < 0 || f.Offset+len(f.Bytes) > len(data) {
		return false
	}
	return bytes.Equal(data[f.Offset:f.Offset+len(f.Bytes)], f.Bytes)
}

func MatchesAll(filters []Filter, data []byte) bool {
	for _, f := range filters {
		if !f.Matches(data) {
			return false
		}
	}
	return true
}
