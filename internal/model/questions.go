package model

import "regexp"

// QuestionCodePattern matches the fine-grained question codes (Q1 .. Q18)
// shared between human specific-question labels and the automated
// annotator's workbook columns.
var QuestionCodePattern = regexp.MustCompile(`Q\d{1,2}`)

// ExtractQuestionCodes returns every question code occurring in a
// free-text label, in order of appearance, without duplicates.
func ExtractQuestionCodes(label string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, code := range QuestionCodePattern.FindAllString(label, -1) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// generalCategories maps each fine-grained question code to the general
// category used by the human-vs-automated rollup. Codes outside this table
// are ignored by the rollup.
var generalCategories = map[string]string{
	"Q1":  "Controle de Autenticação",
	"Q2":  "Controle de Autenticação",
	"Q3":  "Controle de Autenticação",
	"Q4":  "Controle de Autenticação",
	"Q5":  "Gerenciamento de Sessão",
	"Q6":  "Gerenciamento de Sessão",
	"Q7":  "Autorização e Acesso",
	"Q8":  "Segurança de Dados / API",
	"Q9":  "Funções Administrativas",
	"Q10": "Entrada de Usuário / Ambiente",
	"Q11": "Saída de Dados",
	"Q12": "Serialização / Objetos",
	"Q13": "Análise XML",
	"Q14": "Desserialização",
	"Q15": "Análise JSON",
	"Q16": "Logs e Armazenamento",
	"Q17": "Upload de Arquivos",
	"Q18": "API RESTful",
}

// GeneralCategoryOf returns the general category of a question code, if any.
func GeneralCategoryOf(code string) (string, bool) {
	cat, ok := generalCategories[code]
	return cat, ok
}
