// Command devtoken prints a signed bearer token for local development.
package main

import (
	"flag"
	"fmt"
	"os"

	"dragons-den/internal/auth"
	"dragons-den/internal/shared/config"
)

func main() {
	id := flag.String("id", "dev-keeper", "player id carried in the token")
	username := flag.String("username", "", "username claim")
	email := flag.String("email", "", "email claim")
	flag.Parse()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}

	name := *username
	if name == "" {
		name = *id
	}

	token, err := auth.GenerateJWT(auth.User{ID: *id, Username: name, Email: *email})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
