package flow

import (
	"strings"
	"sync"
	"time"

	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/schemas"
)

// DefaultDebounce is how long a postcode field must stay unchanged before
// a lookup fires.
const DefaultDebounce = 500 * time.Millisecond

// LookupFunc resolves a postcode to candidate addresses. An empty slice
// with a nil error means no results; a non-nil error means the provider
// failed.
type LookupFunc func(postcode string) ([]models.Address, error)

// PostcodeWatcher debounces keystrokes on a postcode field and fires one
// lookup per settled value. Selecting an address writes the selection's
// postcode back into the field; SkipNext suppresses the echo lookup that
// write would otherwise trigger.
type PostcodeWatcher struct {
	Debounce  time.Duration
	Lookup    LookupFunc
	OnResults func(field string, addresses []models.Address)
	OnError   func(field, key string)

	mu       sync.Mutex
	timers   map[string]*time.Timer
	skipNext map[string]bool
}

func NewPostcodeWatcher(lookup LookupFunc) *PostcodeWatcher {
	return &PostcodeWatcher{
		Debounce: DefaultDebounce,
		Lookup:   lookup,
		timers:   map[string]*time.Timer{},
		skipNext: map[string]bool{},
	}
}

// Input reports a new value for a postcode field. Earlier pending lookups
// for the same field are cancelled; malformed values never reach the
// provider.
func (w *PostcodeWatcher) Input(field, value string) {
	w.mu.Lock()

	if w.skipNext[field] {
		delete(w.skipNext, field)
		w.mu.Unlock()
		return
	}

	if t := w.timers[field]; t != nil {
		t.Stop()
	}

	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if len(cleaned) < 5 {
		// still typing
		delete(w.timers, field)
		w.mu.Unlock()
		return
	}

	// shape is judged only once the value settles, so valid prefixes of a
	// longer postcode never flash an error mid-typing
	w.timers[field] = time.AfterFunc(w.Debounce, func() {
		w.fire(field, cleaned)
	})
	w.mu.Unlock()
}

// Select marks that the next Input on this field is a programmatic echo
// of an address selection and must not trigger a lookup.
func (w *PostcodeWatcher) Select(field string) {
	w.mu.Lock()
	w.skipNext[field] = true
	if t := w.timers[field]; t != nil {
		t.Stop()
		delete(w.timers, field)
	}
	w.mu.Unlock()
}

// Stop cancels all pending lookups.
func (w *PostcodeWatcher) Stop() {
	w.mu.Lock()
	for field, t := range w.timers {
		t.Stop()
		delete(w.timers, field)
	}
	w.mu.Unlock()
}

func (w *PostcodeWatcher) fire(field, postcode string) {
	if len(postcode) > 7 || !schemas.UKPostcodeShape(postcode) {
		w.report(field, field+".format")
		return
	}

	addresses, err := w.Lookup(postcode)
	if err != nil {
		w.report(field, field+".lookupFailed")
		return
	}
	if len(addresses) == 0 {
		w.report(field, field+".lookupNoResults")
		return
	}
	if w.OnResults != nil {
		w.OnResults(field, addresses)
	}
}

func (w *PostcodeWatcher) report(field, key string) {
	if w.OnError != nil {
		w.OnError(field, key)
	}
}
