package library

import (
	"strings"
	"time"

	"grc-integrator/internal/models"
)

const (
	OutputBundle   = "bundle"
	OutputStandard = "standard"
	OutputFull     = "full"

	FormatBundle   = "opengrc-bundle"
	FormatStandard = "opengrc-standard"
	FormatFull     = "opengrc-full"

	DefaultAuthority   = "Unknown"
	DefaultCategory    = "General"
	DefaultEnforcement = "Mandatory"
	sourceName         = "library"
)

// BundleManifest: запись в формате манифеста OpenGRC.
type BundleManifest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description"`
	Authority   string  `json:"authority"`
	Status      *string `json:"status"`
	Type        string  `json:"type"`
}

type ControlDoc struct {
	Code        string             `json:"code"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        models.ControlType `json:"type"`
	Category    string             `json:"category"`
	Enforcement string             `json:"enforcement"`
}

type StandardDoc struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Authority   string       `json:"authority"`
	Description string       `json:"description"`
	Controls    []ControlDoc `json:"controls"`
}

type Metadata struct {
	Source                string    `json:"source"`
	LibraryID             uint      `json:"library_id"`
	LibraryURN            string    `json:"library_urn"`
	OriginalProvider      string    `json:"original_provider"`
	Version               string    `json:"version"`
	Locale                string    `json:"locale"`
	TotalRequirementNodes int       `json:"total_requirement_nodes"`
	AssessableControls    int       `json:"assessable_controls"`
	ConvertedAt           time.Time `json:"converted_at"`
}

type FullDoc struct {
	Bundle   *BundleManifest `json:"bundle"`
	Standard *StandardDoc    `json:"standard"`
}

type OpenGRCResult struct {
	Success  bool     `json:"success"`
	Format   string   `json:"format"`
	Data     any      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Code: ref_id библиотеки, затем ref_id фреймворка, затем последний сегмент urn.
func (l *Library) Code() string {
	if l.RefID != "" {
		return l.RefID
	}
	if fw := l.Content.Framework; fw != nil && strings.TrimSpace(fw.RefID) != "" {
		return strings.TrimSpace(fw.RefID)
	}
	return lastSegment(l.URN)
}

func lastSegment(urn string) string {
	urn = strings.TrimRight(urn, ":/")
	if i := strings.LastIndexAny(urn, ":/"); i >= 0 {
		return urn[i+1:]
	}
	return urn
}

func (l *Library) authority() string {
	if strings.TrimSpace(l.Provider) == "" {
		return DefaultAuthority
	}
	return l.Provider
}

func ToBundle(lib *Library) *BundleManifest {
	if lib == nil {
		return nil
	}

	var status *string
	if lib.IsLoaded {
		s := models.BundleStatusImported
		status = &s
	}

	return &BundleManifest{
		Code:        lib.Code(),
		Name:        lib.Name,
		Version:     lib.Version,
		Description: lib.Description,
		Authority:   lib.authority(),
		Status:      status,
		Type:        string(models.BundleStandard),
	}
}

// CategorizeControlType: первое совпадение по ключевым словам, порядок правил важен.
func CategorizeControlType(name string) models.ControlType {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "governance", "management", "policy"):
		return models.ControlAdministrative
	case containsAny(n, "technical", "network", "system", "access"):
		return models.ControlTechnical
	case containsAny(n, "physical", "facility"):
		return models.ControlPhysical
	case containsAny(n, "operational", "ics", "industrial"):
		return models.ControlOperational
	default:
		return models.ControlOther
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func ToStandard(lib *Library) *StandardDoc {
	if lib == nil {
		return nil
	}

	nodes := lib.Nodes()
	byURN := make(map[string]*RequirementNode, len(nodes))
	for i := range nodes {
		if nodes[i].URN != "" {
			byURN[nodes[i].URN] = &nodes[i]
		}
	}

	controls := []ControlDoc{}
	for i := range nodes {
		n := &nodes[i]
		if !n.Assessable {
			continue
		}

		var parent, grandparent *RequirementNode
		if n.ParentURN != "" {
			parent = byURN[n.ParentURN]
		}
		if parent != nil && parent.ParentURN != "" {
			grandparent = byURN[parent.ParentURN]
		}

		category := DefaultCategory
		switch {
		case parent != nil && parent.Name != "":
			category = parent.Name
		case grandparent != nil && grandparent.Name != "":
			category = grandparent.Name
		}

		typeSource := ""
		switch {
		case grandparent != nil && grandparent.Name != "":
			typeSource = grandparent.Name
		case parent != nil:
			typeSource = parent.Name
		}

		code := n.RefID
		if code == "" {
			code = lastSegment(n.URN)
		}
		title := n.Name
		if title == "" {
			title = code
		}

		controls = append(controls, ControlDoc{
			Code:        code,
			Title:       title,
			Description: n.Description,
			Type:        CategorizeControlType(typeSource),
			Category:    category,
			Enforcement: DefaultEnforcement,
		})
	}

	return &StandardDoc{
		Code:        lib.Code(),
		Name:        lib.Name,
		Authority:   lib.authority(),
		Description: lib.Description,
		Controls:    controls,
	}
}

func ToOpenGRC(lib *Library, outputType string) *OpenGRCResult {
	if lib == nil {
		return nil
	}

	bundle := ToBundle(lib)
	standard := ToStandard(lib)

	res := &OpenGRCResult{
		Success: true,
		Metadata: Metadata{
			Source:                sourceName,
			LibraryID:             lib.ID,
			LibraryURN:            lib.URN,
			OriginalProvider:      lib.Provider,
			Version:               lib.Version,
			Locale:                lib.Locale,
			TotalRequirementNodes: len(lib.Nodes()),
			AssessableControls:    len(standard.Controls),
			ConvertedAt:           time.Now().UTC(),
		},
	}

	switch outputType {
	case OutputBundle:
		res.Format = FormatBundle
		res.Data = bundle
	case OutputStandard:
		res.Format = FormatStandard
		res.Data = standard
	default:
		res.Format = FormatFull
		res.Data = FullDoc{Bundle: bundle, Standard: standard}
	}
	return res
}
