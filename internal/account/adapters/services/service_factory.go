// Package services предоставляет реализации сервисов паролей: bcrypt-хэширование
// и генерацию случайных паролей.
package services

import (
	"accountkeeper/internal/account/ports/services"
)

// ServiceFactory создает сервисы, необходимые менеджеру учетных записей.
type ServiceFactory struct {
	passwordService   services.PasswordService
	passwordGenerator services.PasswordGenerator
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(bcryptCost, generatedLength int) *ServiceFactory {
	return &ServiceFactory{
		passwordService:   NewBcrypt(bcryptCost),
		passwordGenerator: NewRandomGenerator(generatedLength),
	}
}

// PasswordService возвращает сервис хэширования паролей.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// PasswordGenerator возвращает генератор паролей.
func (f *ServiceFactory) PasswordGenerator() services.PasswordGenerator {
	return f.passwordGenerator
}
