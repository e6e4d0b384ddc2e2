package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacutrack/vacutrack-api/pkg/normalize"
)

func TestFold(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"Región Ñuble", "region nuble"},
		{"BÍO BÍO", "bio bio"},
		{"Valparaíso", "valparaiso"},
		{"sin acentos", "sin acentos"},
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, normalize.Fold(c.entrada), c.entrada)
	}
}
