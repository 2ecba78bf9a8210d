package link

import (
	"bytes"
	"fmt"
	"strings"
)

// Batch is the plaintext of the words drained at once.
type Batch struct {
	Words []uint32
	Data  []byte
}

func (b *Batch) append(word uint32) {
	b.Words = append(b.Words, word)
	p := unpackWord(word)
	b.Data = append(b.Data, p[:]...)
}

// Hex formats each word as its four bytes in order, words separated by a space.
func (b *Batch) Hex() string {
	groups := make([]string, 0, len(b.Words))
	for _, word := range b.Words {
		p := unpackWord(word)
		groups = append(groups, fmt.Sprintf("%02X%02X%02X%02X", p[0], p[1], p[2], p[3]))
	}
	return strings.Join(groups, " ")
}

// Text returns the data without the trailing zero padding.
func (b *Batch) Text() []byte {
	return bytes.TrimRight(b.Data, "\x00")
}

// Printable indicates the text is non-empty printable ASCII.
func (b *Batch) Printable() bool {
	text := b.Text()
	if len(text) == 0 {
		return false
	}
	for _, c := range text {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// ASCII returns the text when printable.
func (b *Batch) ASCII() string {
	if !b.Printable() {
		return ""
	}
	return string(b.Text())
}
