package services

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-password/password"

	"accountkeeper/internal/account/domain/services"
	svc "accountkeeper/internal/account/ports/services"
)

// Алфавиты генератора. Похожие символы (0/O, 1/l/I) исключены.
const (
	lowerAlphabet   = "abcdefghijkmnopqrstuvwxyz"
	upperAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitsAlphabet  = "23456789"
	symbolsAlphabet = "!@#$%^&*-_=+?"

	// DefaultGeneratedLength - длина генерируемого пароля по умолчанию.
	DefaultGeneratedLength = 16
)

// RandomGenerator генерирует пароли из криптографически стойкого источника.
// Каждый пароль содержит буквы, цифры и хотя бы один символ.
type RandomGenerator struct {
	length    int
	generator *password.Generator
}

// NewRandomGenerator создает генератор паролей заданной длины.
// Длина приводится к диапазону допустимых длин пароля.
func NewRandomGenerator(length int) svc.PasswordGenerator {
	if length < services.MinPasswordLength {
		length = DefaultGeneratedLength
	}
	if length > services.MaxPasswordLength {
		length = services.MaxPasswordLength
	}

	// NewGenerator возвращает ошибку только в сигнатуре.
	generator, _ := password.NewGenerator(&password.GeneratorInput{
		LowerLetters: lowerAlphabet,
		UpperLetters: upperAlphabet,
		Digits:       digitsAlphabet,
		Symbols:      symbolsAlphabet,
	})
	return &RandomGenerator{length: length, generator: generator}
}

// Generate возвращает новый случайный пароль.
// Четверть длины занимают цифры, восьмую часть символы, остальное буквы.
func (g *RandomGenerator) Generate(_ context.Context) (string, error) {
	digits, symbols := g.length/4, g.length/8
	generated, err := g.generator.Generate(g.length, digits, symbols, false, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", services.ErrGenerationFailed, err)
	}
	return generated, nil
}
