// generate-token mints a JWT for manual API testing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/auth"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
)

func main() {
	userID := flag.String("user", "550e8400-e29b-41d4-a716-446655440000", "Actor ID (UUID)")
	phone := flag.String("phone", "+919900112233", "Phone number")
	role := flag.String("role", "user", "Role (user|mechanic|admin)")
	flag.Parse()

	cfg := config.Load()
	jwtService := auth.NewJWTService(cfg.JWT)

	token, err := jwtService.GenerateToken(*userID, *phone, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User ID: %s\n", *userID)
	fmt.Printf("Phone:   %s\n", *phone)
	fmt.Printf("Role:    %s\n", *role)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\nAuthorization: Bearer %s\n", token)
}
