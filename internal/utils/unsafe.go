package utils

import "unsafe"

func BufferToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
