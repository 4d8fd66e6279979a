package orchestrator

import (
	"errors"
	"sync"
)

var (
	ErrNotFound            = errors.New("session, ad set or ad not found")
	ErrAlreadyAnimated     = errors.New("ad already carries a video")
	ErrAllStrategiesFailed = errors.New("every image strategy failed")
	ErrStaleTarget         = errors.New("target vanished before the result arrived")
)

// Category groups actions that share one user-visible error message.
type Category string

const (
	CategoryGeneration    Category = "generation"
	CategoryAdSetCreation Category = "adSetCreation"
	CategoryRefinement    Category = "refinement"
	CategoryImageEdit     Category = "imageEdit"
	CategoryAnimation     Category = "animation"
)

const (
	MsgGeneration    = "Hubo un error conectando con la IA. Por favor intenta de nuevo."
	MsgAdSetCreation = "Error al crear el conjunto de anuncios."
	MsgRefinement    = "No se pudo refinar el anuncio."
	MsgResize        = "Error al redimensionar. Intenta de nuevo."
	MsgVariation     = "Error crítico: No se pudo generar la variante. Por favor intenta de nuevo."
	MsgEnhance       = "Error al procesar la imagen subida. Intenta con una imagen más pequeña."
	MsgAnimation     = "Error generando video con Veo. Intenta de nuevo."
	MsgAnimationAuth = "La API Key no tiene acceso a Veo o expiró. Por favor selecciona una nueva llave."
)

// ErrorBoard keeps the last message per category. A category is cleared when
// its next action starts.
type ErrorBoard struct {
	mu   sync.Mutex
	last map[Category]string
}

func NewErrorBoard() *ErrorBoard {
	return &ErrorBoard{last: make(map[Category]string)}
}

func (b *ErrorBoard) Set(c Category, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[c] = msg
}

func (b *ErrorBoard) Clear(c Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.last, c)
}

func (b *ErrorBoard) Get(c Category) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg, ok := b.last[c]
	return msg, ok
}

func (b *ErrorBoard) Snapshot() map[Category]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[Category]string, len(b.last))
	for k, v := range b.last {
		out[k] = v
	}
	return out
}
