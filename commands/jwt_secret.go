package commands

import (
	"fmt"
	"io"

	"coleta-agenda/utils"
)

// SuggestJWTSecret prints a freshly generated JWT_SECRET line when none is
// configured. It reports whether a secret was printed.
func SuggestJWTSecret(current string, out io.Writer) (bool, error) {
	if current != "" {
		return false, nil
	}
	secret, err := utils.GenerateJWTSecret()
	if err != nil {
		return false, fmt.Errorf("generate jwt secret: %w", err)
	}
	fmt.Fprintln(out, "JWT_SECRET não definido. Adicione ao .env antes de iniciar o servidor:")
	fmt.Fprintf(out, "JWT_SECRET=%s\n", secret)
	return true, nil
}
