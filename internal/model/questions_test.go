package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuestionCodes(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  []string
	}{
		{"single code", "Q1 - A senha é verificada?", []string{"Q1"}},
		{"two digits", "Q15 - Análise JSON", []string{"Q15"}},
		{"multiple in order", "Q3 e Q1 se aplicam", []string{"Q3", "Q1"}},
		{"duplicates dropped", "Q2, Q2 e Q7", []string{"Q2", "Q7"}},
		{"no code", "questão sem código", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractQuestionCodes(tt.label))
		})
	}
}

func TestGeneralCategoryOf(t *testing.T) {
	cat, ok := GeneralCategoryOf("Q1")
	assert.True(t, ok)
	assert.Equal(t, "Controle de Autenticação", cat)

	cat, ok = GeneralCategoryOf("Q18")
	assert.True(t, ok)
	assert.Equal(t, "API RESTful", cat)

	_, ok = GeneralCategoryOf("Q99")
	assert.False(t, ok)
}
