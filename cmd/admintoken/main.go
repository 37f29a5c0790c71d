// Command admintoken issues admin JWTs and generates static admin API keys.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/live-redirect-api/internal/config"
	"github.com/live-redirect-api/internal/domain"
	jwtinfra "github.com/live-redirect-api/internal/infrastructure/jwt"
	"github.com/live-redirect-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	subject := flag.String("sub", "operator", "token subject")
	expiry := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRY)")
	newKey := flag.Bool("new-key", false, "generate an API key and its ADMIN_API_KEY_HASH instead of a token")
	hashKey := flag.String("hash-key", "", "print the bcrypt hash of an existing API key")
	flag.Parse()

	if *newKey {
		key, err := token.NewSecret(32)
		if err != nil {
			log.Fatalf("new key: %v", err)
		}
		fmt.Println("key: ", key)
		fmt.Println("hash:", hashOf(key))
		return
	}
	if *hashKey != "" {
		fmt.Println(hashOf(*hashKey))
		return
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if *expiry > 0 {
		cfg.JWTExpiry = *expiry
	}
	p, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}
	signed, err := p.Sign(*subject, domain.RoleAdmin)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Fprintln(os.Stderr, "expires in", cfg.JWTExpiry.Round(time.Second))
	fmt.Println(signed)
}

func hashOf(key string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash key: %v", err)
	}
	return string(hash)
}
