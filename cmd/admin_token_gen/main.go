package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/constants"
)

func main() {
	subject := flag.String("sub", "local-admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("RANKMOD_ADMIN_SECRET")
	if secret == "" {
		log.Fatal("RANKMOD_ADMIN_SECRET is not set")
	}

	token, err := auth.NewAdminTokenService(secret).Issue(*subject, constants.RoleAdmin.String(), *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("Admin token:", token)
}
