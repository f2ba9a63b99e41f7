package utils

import (
	"log"
	"os"
)

// ResolveSecret turns a secret key reference into the secret value. The
// environment is the secret store; credential rows only ever carry the
// reference.
func ResolveSecret(ref string) string {
	if ref == "" {
		log.Println("⚠️ ResolveSecret called with empty ref")
		return ""
	}
	if v := os.Getenv(ref); v != "" {
		return v
	}
	log.Println("⚠️ No env value found for secret key ref:", ref)
	return ""
}
