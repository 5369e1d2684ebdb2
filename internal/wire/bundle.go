package wire

import (
	"encoding/json"
	"fmt"
)

// Manifest: запись индекса репозитория бандлов.
type Manifest struct {
	Code        Text `json:"code"`
	Name        Text `json:"name"`
	Version     Text `json:"version"`
	Authority   Text `json:"authority"`
	Description Text `json:"description"`
	URL         Text `json:"url"`
	RepoURL     Text `json:"repo_url"`
	Type        Text `json:"type"`
}

// Location: откуда скачивать сам бандл; url приоритетнее repo_url.
func (m Manifest) Location() string {
	if !m.URL.Empty() {
		return m.URL.Trimmed()
	}
	return m.RepoURL.Trimmed()
}

func DecodeManifests(data []byte) ([]Manifest, error) {
	var list []Manifest
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode bundle manifests: %w", err)
	}
	return list, nil
}

// BundleControl: контроль внутри скачанного бандла; поля берутся как есть.
type BundleControl struct {
	Code        Text  `json:"code"`
	Title       Text  `json:"title"`
	Description Text  `json:"description"`
	Discussion  *Text `json:"discussion"`
	Test        *Text `json:"test"`
	Type        Text  `json:"type"`
	Category    Text  `json:"category"`
	Enforcement Text  `json:"enforcement"`
}

type BundlePayload struct {
	Code        Text            `json:"code"`
	Name        Text            `json:"name"`
	Authority   Text            `json:"authority"`
	Description Text            `json:"description"`
	Controls    []BundleControl `json:"controls"`
}
