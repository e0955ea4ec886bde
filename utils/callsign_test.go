package utils

import (
	"strconv"
	"strings"
	"testing"
)

func TestGenerateCallsignFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		callsign := GenerateCallsign()
		parts := strings.Split(callsign, " ")
		if len(parts) != 3 {
			t.Fatalf("callsign %q does not have three parts", callsign)
		}

		n, err := strconv.Atoi(parts[2])
		if err != nil {
			t.Fatalf("callsign %q has non-numeric suffix", callsign)
		}
		if n < 1000 || n > 9999 {
			t.Errorf("callsign number %d outside 1000-9999", n)
		}

		if !contains(adjectives, parts[0]) {
			t.Errorf("unknown adjective %q", parts[0])
		}
		if !contains(nouns, parts[1]) {
			t.Errorf("unknown noun %q", parts[1])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
