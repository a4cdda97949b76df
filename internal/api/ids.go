package api

import (
	"sync"

	"github.com/xenking/kart-storefront/internal/wire"
)

// idForms records the JSON form of every product id the server has sent, so
// ids supplied as text are written back the way the server keys them.
type idForms struct {
	mu    sync.RWMutex
	forms map[string]wire.ID
}

// seen records id and returns its textual form.
func (f *idForms) seen(id wire.ID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forms == nil {
		f.forms = make(map[string]wire.ID)
	}
	f.forms[id.String()] = id
	return id.String()
}

// lookup returns the recorded form of text. Ids never received are sent as
// JSON strings.
func (f *idForms) lookup(text string) wire.ID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if id, ok := f.forms[text]; ok {
		return id
	}
	return wire.StringID(text)
}
