package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	authUtils "owl-league/packages/auth/utils"
)

// Prints the bcrypt hash to store in ADMIN_PASSWORD_HASH.
// The password is read from -password or, when omitted, from the first line of stdin.
func main() {
	password := flag.String("password", "", "admin password to hash")
	flag.Parse()

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password given: use -password or pipe it on stdin")
			os.Exit(2)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		fmt.Fprintln(os.Stderr, "password must not be empty")
		os.Exit(2)
	}

	hash, err := authUtils.HashPassword(plain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
