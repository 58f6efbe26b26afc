package model

import "sort"

// DescriptionNotFound is returned by Catalog.Describe for unknown codes.
const DescriptionNotFound = "Requisito não encontrado"

// Requirement is one checklist item from the security-verification standard.
// ExternalID is the stable join key across analysts and across the automated
// annotator. ID is only unique within one submission's embedded catalog and
// must never be compared across records.
type Requirement struct {
	ID          int    `json:"id"`
	ExternalID  string `json:"id_externo"`
	Description string `json:"descricao"`
	Level       string `json:"nivel"`
	SectionID   string `json:"secao_id"`
}

// Catalog is the sole authority for requirement metadata. It accumulates
// every requirement encountered during ingestion, keyed by external id,
// with first-seen metadata winning on duplicates.
type Catalog struct {
	byExternal map[string]Requirement
	byInternal map[int]Requirement
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byExternal: make(map[string]Requirement),
		byInternal: make(map[int]Requirement),
	}
}

// Register upserts a requirement. The first sighting of an external id (and,
// independently, of an internal id) wins; later metadata conflicts are
// ignored. Requirements without an external id are not registered.
func (c *Catalog) Register(req Requirement) {
	if req.ExternalID == "" {
		return
	}
	if _, ok := c.byExternal[req.ExternalID]; !ok {
		c.byExternal[req.ExternalID] = req
	}
	if _, ok := c.byInternal[req.ID]; !ok {
		c.byInternal[req.ID] = req
	}
}

// ExternalIDs returns all distinct external ids seen so far, sorted
// lexicographically so matrix-style outputs have a stable column order.
func (c *Catalog) ExternalIDs() []string {
	ids := make([]string, 0, len(c.byExternal))
	for id := range c.byExternal {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Describe returns the description for an external id, or the
// DescriptionNotFound sentinel when the id is unknown.
func (c *Catalog) Describe(externalID string) string {
	req, ok := c.byExternal[externalID]
	if !ok {
		return DescriptionNotFound
	}
	if req.Description == "" {
		return DescriptionNotFound
	}
	return req.Description
}

// ByExternal looks up a requirement by its external id.
func (c *Catalog) ByExternal(externalID string) (Requirement, bool) {
	req, ok := c.byExternal[externalID]
	return req, ok
}

// ByInternal looks up a requirement by the internal id carried on a marked
// reference. Internal ids are only locally unique, so this is best-effort.
func (c *Catalog) ByInternal(id int) (Requirement, bool) {
	req, ok := c.byInternal[id]
	return req, ok
}

// Len returns the number of distinct external ids registered.
func (c *Catalog) Len() int {
	return len(c.byExternal)
}
