// Command hash-generator prints bcrypt hashes for seeding accounts directly
// in the database, for example the first admin when admin signup is off.
//
//	hash-generator [-cost 10] password...
//
// With no arguments it reads one password per line from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", auth.DefaultBcryptCost, "bcrypt cost factor")
	flag.Parse()

	if err := run(os.Stdout, os.Stdin, flag.Args(), *cost); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, in io.Reader, passwords []string, cost int) error {
	hasher := auth.NewBcryptHasher(cost)

	if len(passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			passwords = append(passwords, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	for _, pw := range passwords {
		if err := domain.ValidatePassword(pw); err != nil {
			return err
		}
		hash, err := hasher.Hash(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hash)
	}
	return nil
}
