package embedding

// Hash is the 32-bit rolling string hash shared by every embedding in a
// deployment: h = int32(h*31 + c) over the characters, then the absolute value.
// The absolute value is taken in 64 bits so math.MinInt32 maps to 2147483648.
// Changing it invalidates all stored embeddings.
func Hash(token string) int64 {
	var h int32
	for _, c := range token {
		h = h*31 + c
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
