package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// mesmo formato dos ObjectIDs do MongoDB: 24 caracteres hexadecimais
const (
	idAlphabet = "0123456789abcdef"
	idLength   = 24
)

func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
