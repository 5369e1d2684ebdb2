package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Criterion: элемент внешнего списка критериев (Muraji).
type Criterion struct {
	Code        Text `json:"code"`
	Name        Text `json:"name"`
	Authority   Text `json:"authority"`
	Description Text `json:"description"`
	ParentCode  Text `json:"parent_code"`
	ParentID    Text `json:"parent_id"`
}

// IsSubCriterion: есть хотя бы одна ссылка на родителя; 0 и false ссылкой не считаются.
func (c Criterion) IsSubCriterion() bool {
	return hasParent(c.ParentCode) || hasParent(c.ParentID)
}

func hasParent(t Text) bool {
	switch strings.ToLower(t.Trimmed()) {
	case "", "0", "false":
		return false
	}
	return true
}

var ErrNotCriteriaList = errors.New("criteria payload is neither an array nor an object with a data array")

// criteriaPayload: два допустимых варианта ответа: голый массив или {data: [...]}.
type criteriaPayload struct {
	list    []Criterion
	wrapped bool
}

func (p *criteriaPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrNotCriteriaList
	}

	switch data[0] {
	case '[':
		return json.Unmarshal(data, &p.list)
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return err
		}
		raw := bytes.TrimSpace(envelope.Data)
		if len(raw) == 0 || raw[0] != '[' {
			return ErrNotCriteriaList
		}
		p.wrapped = true
		return json.Unmarshal(raw, &p.list)
	default:
		return ErrNotCriteriaList
	}
}

// DecodeCriteria приводит оба варианта ответа к одному списку.
func DecodeCriteria(data []byte) ([]Criterion, error) {
	var p criteriaPayload
	if err := json.Unmarshal(data, &p); err != nil {
		if errors.Is(err, ErrNotCriteriaList) {
			return nil, err
		}
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	if p.list == nil {
		return []Criterion{}, nil
	}
	return p.list, nil
}
