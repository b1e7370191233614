package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	senha := "koerner2026"
	if len(os.Args) > 1 {
		senha = os.Args[1]
	}
	h, err := bcrypt.GenerateFromPassword([]byte(senha), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
