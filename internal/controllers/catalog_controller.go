package controllers

import (
	"adforge/internal/models"
	"net/http"

	json "github.com/goccy/go-json"
)

type catalogEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Label string `json:"label"`
}

type formatEntry struct {
	catalogEntry
	ImageAspectRatio string `json:"imageAspectRatio"`
	VideoAspectRatio string `json:"videoAspectRatio"`
}

type catalog struct {
	Archetypes []catalogEntry       `json:"archetypes"`
	Formats    []formatEntry        `json:"formats"`
	Tones      []catalogEntry       `json:"tones"`
	Palettes   []models.Palette     `json:"palettes"`
	Defaults   models.CampaignInput `json:"defaults"`
}

// CatalogController serves the closed option lists of the creation form.
// The content never changes, so it is rendered once.
type CatalogController struct {
	body []byte
}

func NewCatalogController() (*CatalogController, error) {
	c := catalog{Palettes: models.Palettes(), Defaults: models.DefaultInput()}
	for _, a := range models.Archetypes() {
		c.Archetypes = append(c.Archetypes, catalogEntry{Key: a.Key(), Value: a.Value(), Label: a.Label()})
	}
	for _, f := range models.Formats() {
		c.Formats = append(c.Formats, formatEntry{
			catalogEntry:     catalogEntry{Key: f.Key(), Value: f.Value(), Label: f.Label()},
			ImageAspectRatio: f.ImageAspectRatio(),
			VideoAspectRatio: f.VideoAspectRatio(),
		})
	}
	for _, t := range models.Tones() {
		c.Tones = append(c.Tones, catalogEntry{Key: t.Key(), Value: t.Value(), Label: t.Label()})
	}
	body, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return &CatalogController{body: body}, nil
}

func (cc *CatalogController) Catalog(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, cc.body)
}
