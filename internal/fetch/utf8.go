package fetch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// RepairUTF8 убирает BOM, заменяет битые последовательности на U+FFFD и
// нормализует текст в NFC. Raw-хостинги иногда отдают файлы с мусором в кодировке.
func RepairUTF8(data []byte) []byte {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) {
		out = []byte(strings.ToValidUTF8(string(data), "\uFFFD"))
	}
	return norm.NFC.Bytes(out)
}
