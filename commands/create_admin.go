package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"coleta-agenda/services"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// PasswordReader reads a secret from the terminal.
type PasswordReader func(prompt string) (string, error)

// CreateAdminOptions holds the parsed create-admin flags.
type CreateAdminOptions struct {
	Name      string
	Email     string
	MustReset bool
}

// ParseCreateAdminFlags parses the create-admin subcommand arguments.
func ParseCreateAdminFlags(args []string) (CreateAdminOptions, error) {
	var opts CreateAdminOptions
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.StringVar(&opts.Name, "name", "", "Administrator name")
	fs.StringVar(&opts.Email, "email", "", "Administrator email")
	fs.BoolVar(&opts.MustReset, "must-reset", false, "Force a credential reset on first login")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: coleta-agenda create-admin -name NAME -email EMAIL [-must-reset]\n\n")
		fmt.Fprintf(fs.Output(), "Creates an administrator account. The password is read from the terminal.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Name == "" || opts.Email == "" {
		fs.Usage()
		return opts, errors.New("-name and -email are required")
	}
	return opts, nil
}

// CreateAdmin prompts for a password twice and stores the administrator.
func CreateAdmin(ctx context.Context, admins *services.AdminService, opts CreateAdminOptions, readPassword PasswordReader, out io.Writer) error {
	password, err := readPassword("Senha: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword("Confirme a senha: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	admin, err := admins.Create(ctx, services.AdminInput{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: password,
	}, opts.MustReset)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Administrador %s criado (id %d)\n", admin.Email, admin.ID)
	return nil
}

// TerminalPassword reads a password without echo. When stdin is not a
// terminal it falls back to reading one line.
func TerminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
