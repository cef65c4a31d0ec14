package plain

func LowerCase(content string) string {
	return string(LowerCaseBytes([]byte(content)))
}

func LowerCaseBytes(input []byte) []byte {
	output := make([]byte, len(input))

	for i, b := range input {
		if 'A' <= b && b <= 'Z' {
			b += 32 // to lowercase
		}
		output[i] = b
	}

	return output
}
