// Package main is a utility for generating the bcrypt hash of the admin
// password. The portal stores only the bcrypt hash in its configuration
// (auth.admin_password_hash / LG_AUTH_ADMIN_PASSWORD_HASH) — never the raw
// password — so this tool is used when seeding a deployment.
//
// Usage: hash <password>
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password>\n", os.Args[0])
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(hash))
}
