// Command share-key prints a fresh share-link signing key for
// ANUNCIOS_SHARE_GRANT_PRIVATE_KEY.
package main

import (
	"fmt"
	"log"

	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
)

func main() {
	log.SetPrefix("[SHARE-KEY] ")

	key, err := sharegrant.GenerateKey()
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	fmt.Println(key)
}
