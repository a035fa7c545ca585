package question

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Letter is an option label, A through O.
type Letter byte

const (
	FirstLetter Letter = 'A'
	LastLetter  Letter = 'O'

	// MaxOptions is the number of option slots, A..O.
	MaxOptions = int(LastLetter-FirstLetter) + 1
)

// ParseLetter accepts a single letter, case-insensitive.
func ParseLetter(s string) (Letter, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, fmt.Errorf("option label %q must be a single letter", s)
	}
	l := Letter(strings.ToUpper(s)[0])
	if !l.Valid() {
		return 0, fmt.Errorf("option label %q is outside %c-%c", s, FirstLetter, LastLetter)
	}
	return l, nil
}

func (l Letter) Valid() bool {
	return l >= FirstLetter && l <= LastLetter
}

func (l Letter) index() int {
	return int(l - FirstLetter)
}

func (l Letter) String() string {
	return string(rune(l))
}

func (l Letter) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid option label %d", byte(l))
	}
	return []byte{byte(l)}, nil
}

func (l *Letter) UnmarshalText(text []byte) error {
	parsed, err := ParseLetter(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Options holds option texts indexed by letter. An empty string means the
// option is absent.
type Options [MaxOptions]string

// Get returns the text for l, or "" if l is absent or out of range.
func (o Options) Get(l Letter) string {
	if !l.Valid() {
		return ""
	}
	return o[l.index()]
}

// Set stores text under l. It panics if l is out of range.
func (o *Options) Set(l Letter, text string) {
	o[l.index()] = text
}

// Has reports whether option l has text.
func (o Options) Has(l Letter) bool {
	return strings.TrimSpace(o.Get(l)) != ""
}

// Present returns the letters that have text, in order.
func (o Options) Present() []Letter {
	var letters []Letter
	for l := FirstLetter; l <= LastLetter; l++ {
		if o.Has(l) {
			letters = append(letters, l)
		}
	}
	return letters
}

// Last returns the highest letter with text, or 0 when there is none.
func (o Options) Last() Letter {
	present := o.Present()
	if len(present) == 0 {
		return 0
	}
	return present[len(present)-1]
}

// OptionsFromMap builds Options from a letter-keyed map.
func OptionsFromMap(m map[string]string) (Options, error) {
	var o Options
	for key, text := range m {
		l, err := ParseLetter(key)
		if err != nil {
			return Options{}, err
		}
		o.Set(l, text)
	}
	return o, nil
}

// Map returns the present options keyed by letter.
func (o Options) Map() map[string]string {
	m := make(map[string]string)
	for _, l := range o.Present() {
		m[l.String()] = o.Get(l)
	}
	return m
}

func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map())
}

func (o *Options) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := OptionsFromMap(m)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o Options) MarshalYAML() (interface{}, error) {
	return o.Map(), nil
}

func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var m map[string]string
	if err := unmarshal(&m); err != nil {
		return err
	}
	parsed, err := OptionsFromMap(m)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// LetterSet is a set of option labels.
type LetterSet uint16

func NewLetterSet(letters ...Letter) LetterSet {
	var s LetterSet
	for _, l := range letters {
		s = s.Add(l)
	}
	return s
}

func (s LetterSet) Add(l Letter) LetterSet {
	if !l.Valid() {
		return s
	}
	return s | 1<<l.index()
}

func (s LetterSet) Contains(l Letter) bool {
	return l.Valid() && s&(1<<l.index()) != 0
}

func (s LetterSet) Len() int {
	n := 0
	for l := FirstLetter; l <= LastLetter; l++ {
		if s.Contains(l) {
			n++
		}
	}
	return n
}

// Letters returns the members in order.
func (s LetterSet) Letters() []Letter {
	var letters []Letter
	for l := FirstLetter; l <= LastLetter; l++ {
		if s.Contains(l) {
			letters = append(letters, l)
		}
	}
	return letters
}

func (s LetterSet) String() string {
	letters := s.Letters()
	parts := make([]string, len(letters))
	for i, l := range letters {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// ParseLetterSet parses a comma or space separated list such as "A,C,E".
func ParseLetterSet(s string) (LetterSet, error) {
	var set LetterSet
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	for _, f := range fields {
		l, err := ParseLetter(f)
		if err != nil {
			return 0, err
		}
		set = set.Add(l)
	}
	return set, nil
}
