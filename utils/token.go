package utils

import "crypto/rand"

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns a random alphanumeric code for reset flows.
func GenerateRandomToken(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenCharset[int(b)%len(tokenCharset)]
	}
	return string(buf)
}
