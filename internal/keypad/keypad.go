// Package keypad maps host keyboard input to the 16 key hexadecimal keypad.
package keypad

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultLayout maps the host keys 1234/QWER/ASDF/ZXCV to the keypad
// layout 123C/456D/789E/A0BF. The character at index n is bound to hex key n.
const DefaultLayout = "x123qweasdzc4rfv"

// DefaultHold is the duration a key press stays latched.
const DefaultHold = 150 * time.Millisecond

const keyCount = 16

var errInvalidLayout = errors.New("invalid keypad layout")

// Map binds host runes to hex keys.
type Map struct {
	runes [keyCount]rune
}

// ParseMap parses a layout of 16 distinct characters, the character at
// index n is bound to hex key n.
func ParseMap(layout string) (Map, error) {
	var m Map
	if count := utf8.RuneCountInString(layout); count != keyCount {
		return m, fmt.Errorf("%w: %d characters instead of %d", errInvalidLayout, count, keyCount)
	}

	seen := make(map[rune]struct{}, keyCount)
	var key int
	for _, r := range strings.ToLower(layout) {
		if _, ok := seen[r]; ok {
			return m, fmt.Errorf("%w: character '%c' is used more than once", errInvalidLayout, r)
		}
		seen[r] = struct{}{}
		m.runes[key] = r
		key++
	}
	return m, nil
}

// Key returns the hex key bound to the rune, ignoring case.
func (m Map) Key(r rune) (uint8, bool) {
	r = unicode.ToLower(r)
	for key, bound := range m.runes {
		if bound == r {
			return uint8(key), true
		}
	}
	return 0, false
}

// Runes returns all bound runes, indexed by hex key.
func (m Map) Runes() []rune {
	return m.runes[:]
}

// Keypad converts key press events into a held key state. Terminals only
// report presses, so a press is held for the hold duration or until another
// key is pressed.
type Keypad struct {
	hold time.Duration

	mu      sync.Mutex
	key     uint8
	expires time.Time
}

// New returns a keypad that holds each press for the given duration.
func New(hold time.Duration) *Keypad {
	return &Keypad{
		hold: hold,
	}
}

// Press records a press of the hex key at the given time.
func (k *Keypad) Press(key uint8, now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.key = key & 0xF
	k.expires = now.Add(k.hold)
}

// Poll returns the key that is held at the given time.
func (k *Keypad) Poll(now time.Time) (uint8, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !now.Before(k.expires) {
		return 0, false
	}
	return k.key, true
}
