package reports

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quitarDiacriticos descompone (NFD), elimina las marcas combinantes y
// recompone (NFC): "Río" -> "Rio".
var quitarDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normaliza un nombre a un slug apto para nombre de archivo:
// sin tildes, minúsculas, y todo lo que no sea alfanumérico colapsa a guión.
func Slugify(s string) string {
	plano, _, err := transform.String(quitarDiacriticos, s)
	if err != nil {
		plano = s
	}
	plano = strings.ToLower(plano)

	var b strings.Builder
	prevGuion := true // evita guión inicial
	for _, r := range plano {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevGuion = false
		default:
			if !prevGuion {
				b.WriteByte('-')
				prevGuion = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
