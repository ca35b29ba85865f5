package tokenizer

import "github.com/rivo/uniseg"

// Uniseg splits text at Unicode (UAX #29) word boundaries. Han ideographs
// come out one per token, but latin words and numbers stay whole.
type Uniseg struct{}

func NewUniseg() Uniseg { return Uniseg{} }

func (Uniseg) Name() string { return TypeUniseg }

func (Uniseg) Tokenize(text string) ([]string, error) {
	var words []string
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		words = append(words, word)
	}
	return words, nil
}
