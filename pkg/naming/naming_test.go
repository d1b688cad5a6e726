package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"cobrança", "cobranca"},
		{"negociação", "negociacao"},
		{"café", "cafe"},
		{"José", "Jose"},
		{"naïve", "naive"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, RemoveAccents(test.input), test.input)
	}
}

func TestSplitWords(t *testing.T) {
	assert.Nil(t, SplitWords("  "))
	assert.Equal(t, []string{"pet", "status"}, SplitWords("pet-status"))
	assert.Equal(t, []string{"Page", "Pet"}, SplitWords("Page«Pet»"))
	assert.Equal(t, []string{"api_v1", "Order$"}, SplitWords("api_v1.Order$"))
	assert.Equal(t, []string{"Informacoes"}, SplitWords("Informações"))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("petId"))
	assert.True(t, IsIdentifier("_private"))
	assert.True(t, IsIdentifier("$ref"))
	assert.True(t, IsIdentifier("v2"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("2fa"))
	assert.False(t, IsIdentifier("x-rate-limit"))
	assert.False(t, IsIdentifier("café"))
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Pet", "Pet"},
		{"ApiResponse", "ApiResponse"},
		{"pet_status", "pet_status"},
		{"pet-status", "PetStatus"},
		{"Pet.Status", "PetStatus"},
		{"Page«Pet»", "PagePet"},
		{"io.k8s.api.core.v1.Pod", "IoK8sApiCoreV1Pod"},
		{"configurações", "Configuracoes"},
		{"1stPlace", "_1stPlace"},
		{"404-body", "_404Body"},
		{"string", "String"},
		{"default", "Default"},
		{"«»", "_"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, TypeName(test.input), test.input)
	}
}

func TestIsGenerated(t *testing.T) {
	for _, name := range []string{"Api", "ApiTypes", "CreateApiOptions", "AxiosResponse", "File", "FormData", "Promise", "keys"} {
		assert.True(t, IsGenerated(name), name)
	}
	assert.False(t, IsGenerated("Pet"))
	assert.False(t, IsGenerated("api"))
}
