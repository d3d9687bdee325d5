package roku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rokuctl/internal/roku"
)

func TestEncodeKeyNamedKeys(t *testing.T) {
	// Named keys pass through untouched, never as literals.
	for _, key := range roku.Keys() {
		token, err := roku.EncodeKey(string(key))
		require.NoError(t, err)
		assert.Equal(t, string(key), token)
	}
}

func TestEncodeKeyLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase letter", "a", "Lit_a"},
		{"uppercase letter", "Z", "Lit_Z"},
		{"digit", "5", "Lit_5"},
		{"unreserved punctuation", "~", "Lit_~"},
		{"apostrophe", "'", "Lit_'"},
		{"space", " ", "Lit_%20"},
		{"plus", "+", "Lit_%2B"},
		{"percent", "%", "Lit_%25"},
		{"two byte rune", "é", "Lit_%C3%A9"},
		{"three byte rune", "€", "Lit_%E2%82%AC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := roku.EncodeKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestEncodeKeyRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"two characters", "ab"},
		{"unknown key name", "Homer"},
		{"lowercased key name", "volumeup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roku.EncodeKey(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, roku.ErrInvalidInput)
		})
	}
}

func TestKeysReturnsCopy(t *testing.T) {
	first := roku.Keys()
	first[0] = roku.Key("Mutated")

	second := roku.Keys()
	assert.Equal(t, roku.KeyHome, second[0])
	assert.Len(t, second, 30)
}
