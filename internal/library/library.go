// Package library holds framework libraries with hierarchical requirement
// nodes and converts them into the OpenGRC bundle and standard shapes.
package library

import (
	"encoding/json"
	"fmt"
	"strings"

	"grc-integrator/internal/models"
	"grc-integrator/internal/wire"
)

type RequirementNode struct {
	URN         string `json:"urn"`
	ParentURN   string `json:"parent_urn,omitempty"`
	RefID       string `json:"ref_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Depth       int    `json:"depth"`
	Assessable  bool   `json:"assessable"`
}

// rawNode: узел в том виде, в каком он приходит из JSON каталога.
type rawNode struct {
	URN         wire.Text       `json:"urn"`
	ParentURN   wire.Text       `json:"parent_urn"`
	RefID       wire.Text       `json:"ref_id"`
	Name        wire.Text       `json:"name"`
	Description wire.Text       `json:"description"`
	Depth       wire.Int        `json:"depth"`
	Assessable  wire.StrictBool `json:"assessable"`
}

func (n *RequirementNode) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = RequirementNode{
		URN:         raw.URN.Trimmed(),
		ParentURN:   raw.ParentURN.Trimmed(),
		RefID:       raw.RefID.String(),
		Name:        raw.Name.String(),
		Description: raw.Description.String(),
		Depth:       int(raw.Depth),
		Assessable:  bool(raw.Assessable),
	}
	return nil
}

type Framework struct {
	URN              string            `json:"urn"`
	RefID            string            `json:"ref_id"`
	Name             string            `json:"name"`
	RequirementNodes []RequirementNode `json:"requirement_nodes"`
}

type Content struct {
	Framework *Framework `json:"framework,omitempty"`
}

type Library struct {
	ID          uint    `json:"id"`
	URN         string  `json:"urn"`
	RefID       string  `json:"ref_id"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description"`
	Provider    string  `json:"provider"`
	Locale      string  `json:"locale"`
	IsLoaded    bool    `json:"is_loaded"`
	Content     Content `json:"content"`
}

type rawLibrary struct {
	ID          wire.Int  `json:"id"`
	URN         wire.Text `json:"urn"`
	RefID       wire.Text `json:"ref_id"`
	Name        wire.Text `json:"name"`
	Version     wire.Text `json:"version"`
	Description wire.Text `json:"description"`
	Provider    wire.Text `json:"provider"`
	Locale      wire.Text `json:"locale"`
	IsLoaded    wire.Text `json:"is_loaded"`
	Content     *Content  `json:"content"`
}

func (l *Library) UnmarshalJSON(data []byte) error {
	var raw rawLibrary
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Library{
		ID:          uint(raw.ID),
		URN:         raw.URN.Trimmed(),
		RefID:       raw.RefID.Trimmed(),
		Name:        raw.Name.String(),
		Version:     raw.Version.String(),
		Description: raw.Description.String(),
		Provider:    raw.Provider.String(),
		Locale:      raw.Locale.String(),
		IsLoaded:    truthy(raw.IsLoaded.Trimmed()),
	}
	if raw.Content != nil {
		l.Content = *raw.Content
	}
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Nodes: узлы фреймворка или nil, если content.framework отсутствует.
func (l *Library) Nodes() []RequirementNode {
	if l == nil || l.Content.Framework == nil {
		return nil
	}
	return l.Content.Framework.RequirementNodes
}

// Parse разбирает библиотеку из JSON (файл или тело запроса).
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}
	if lib.URN == "" {
		return nil, fmt.Errorf("parse library: urn is required")
	}
	return &lib, nil
}

// FromModel восстанавливает библиотеку из строки БД.
func FromModel(m *models.Library) (*Library, error) {
	if m == nil {
		return nil, nil
	}
	lib := &Library{
		ID:          m.ID,
		URN:         m.URN,
		RefID:       m.RefID,
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Provider:    m.Provider,
		Locale:      m.Locale,
		IsLoaded:    m.IsLoaded,
	}
	if len(m.Content) > 0 && string(m.Content) != "null" {
		if err := json.Unmarshal(m.Content, &lib.Content); err != nil {
			return nil, fmt.Errorf("decode library %d content: %w", m.ID, err)
		}
	}
	return lib, nil
}

// ToModel: обратное преобразование для сохранения.
func (l *Library) ToModel() (*models.Library, error) {
	content, err := json.Marshal(l.Content)
	if err != nil {
		return nil, fmt.Errorf("encode library content: %w", err)
	}
	return &models.Library{
		URN:         l.URN,
		RefID:       l.RefID,
		Name:        l.Name,
		Version:     l.Version,
		Description: l.Description,
		Provider:    l.Provider,
		Locale:      l.Locale,
		IsLoaded:    l.IsLoaded,
		Content:     content,
	}, nil
}
