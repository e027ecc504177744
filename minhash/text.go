package minhash

import "strings"

// TextIndex is a thin convenience layer pairing a Hasher with an Index and
// a whitespace tokenizer — the one concrete tokenizer gaoya's source ships.
// It is not part of the core: tokenization stays a pluggable concern, this
// is just a worked example of wiring a tokenizer to the core.
type TextIndex[ID comparable, T Elem] struct {
	hasher *Hasher[T]
	index  *Index[ID, T]
}

// NewTextIndex builds a TextIndex whose signature length matches config's.
func NewTextIndex[ID comparable, T Elem](hasher *Hasher[T], config IndexConfig) (*TextIndex[ID, T], error) {
	idx, err := NewIndex[ID, T](config)
	if err != nil {
		return nil, err
	}
	return &TextIndex[ID, T]{hasher: hasher, index: idx}, nil
}

// InsertText tokenizes text by whitespace and inserts the resulting
// signature under id.
func (t *TextIndex[ID, T]) InsertText(id ID, text string) error {
	sig := t.hasher.SignStrings(strings.Fields(text))
	return t.index.Insert(id, sig)
}

// QueryText tokenizes text and queries the underlying index.
func (t *TextIndex[ID, T]) QueryText(text string) ([]ID, error) {
	sig := t.hasher.SignStrings(strings.Fields(text))
	return t.index.Query(sig)
}

// Index exposes the underlying Index for operations TextIndex doesn't wrap.
func (t *TextIndex[ID, T]) Index() *Index[ID, T] {
	return t.index
}
