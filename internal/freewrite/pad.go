package freewrite

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandeepkv93/pomo/internal/storage"
)

const StorageKey = "freewrite"

// Pad is the free-write scratch text. Edits stay in memory until Save.
type Pad struct {
	store storage.Store
	text  string
	saved string
}

func Load(ctx context.Context, store storage.Store) *Pad {
	text := storage.GetString(ctx, store, StorageKey, "")
	return &Pad{store: store, text: text, saved: text}
}

func (p *Pad) Text() string { return p.text }

func (p *Pad) SetText(text string) { p.text = text }

func (p *Pad) Dirty() bool { return p.text != p.saved }

func (p *Pad) Words() int { return len(strings.Fields(p.text)) }

func (p *Pad) Chars() int { return utf8.RuneCountInString(p.text) }

func (p *Pad) Save(ctx context.Context) error {
	if p.store == nil {
		p.saved = p.text
		return nil
	}
	if err := p.store.Set(ctx, StorageKey, p.text); err != nil {
		return fmt.Errorf("freewrite: save: %w", err)
	}
	p.saved = p.text
	return nil
}
