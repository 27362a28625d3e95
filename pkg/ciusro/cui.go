package ciusro

import (
	"fmt"
	"strings"
	"unicode"
)

// cuiWeights cheia de testare aplicada a los 9 dígitos del cuerpo del CUI
// (rellenado con ceros a la izquierda).
var cuiWeights = [9]int{7, 5, 3, 2, 1, 7, 5, 3, 2}

// ValidateCUI valida el dígito de control de un CUI/CIF rumano.
// Acepta el prefijo "RO" y espacios: "RO18547290", "18547290", "ro 18547290".
func ValidateCUI(vat string) error {
	s := strings.ToUpper(strings.Join(strings.Fields(vat), ""))
	s = strings.TrimPrefix(s, CountryRomania)
	if len(s) < 2 || len(s) > 10 {
		return fmt.Errorf("ciusro: el CUI debe tener entre 2 y 10 dígitos, se recibieron %d", len(s))
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("ciusro: el CUI solo admite dígitos: %q", vat)
		}
	}
	expected := ComputeCUIControlDigit(s[:len(s)-1])
	if got := s[len(s)-1]; got != expected {
		return fmt.Errorf("ciusro: dígito de control del CUI inválido: esperado %c, recibido %c", expected, got)
	}
	return nil
}

// ComputeCUIControlDigit calcula el dígito de control para el cuerpo (sin dígito final) del CUI.
func ComputeCUIControlDigit(body string) byte {
	padded := strings.Repeat("0", len(cuiWeights)-len(body)) + body
	var sum int
	for i := range cuiWeights {
		sum += int(padded[i]-'0') * cuiWeights[i]
	}
	r := sum * 10 % 11
	if r == 10 {
		r = 0
	}
	return byte('0' + r)
}
