package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() (string, error) {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/.*[?&]v=|youtu\.be/)([^"&?/\s]{11})`)

// ExtractYouTubeID returns the 11 character video id of a watch or short
// link, or "" when the URL is not a YouTube video link.
func ExtractYouTubeID(videoURL string) string {
	m := youtubeIDPattern.FindStringSubmatch(videoURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SafeFileName replaces every non alphanumeric character with '_'.
func SafeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}
