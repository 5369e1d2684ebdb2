package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text хранит скаляр из внешнего JSON. Строка, число или bool приводятся к строке, null даёт пустую строку.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		// вложенные структуры в скалярных полях не поддерживаем, считаем пустыми
		*t = ""
	default:
		// число или true/false берём как есть
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

func (t Text) Trimmed() string { return strings.TrimSpace(string(t)) }

func (t Text) Empty() bool { return t.Trimmed() == "" }

// Or возвращает значение или fallback, если оно пустое.
func (t Text) Or(fallback string) string {
	if t.Empty() {
		return fallback
	}
	return string(t)
}

// Int: целое из числа или строки; всё остальное даёт 0.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	s := t.Trimmed()
	if s == "" {
		*n = 0
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = Int(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Int(int(f))
		return nil
	}
	*n = 0
	return nil
}

// StrictBool истинен только для JSON-литерала true; "true", 1 и т.п. дают false.
type StrictBool bool

func (b *StrictBool) UnmarshalJSON(data []byte) error {
	*b = StrictBool(bytes.Equal(bytes.TrimSpace(data), []byte("true")))
	return nil
}
