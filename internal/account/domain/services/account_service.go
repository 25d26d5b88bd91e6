// Package services содержит ошибки и константы бизнес-правил жизненного цикла учетных данных.
package services

import "errors"

// Ошибки операций над учетными записями. Сообщения безопасно показывать пользователю.
var (
	ErrSessionExpired           = errors.New("session expired, please log in again")
	ErrIncorrectCurrentPassword = errors.New("current password is incorrect")
	ErrRegistrationFailed       = errors.New("could not create the account, please try again later")
	ErrDeletionFailed           = errors.New("incorrect id")
	ErrPasswordUpdateFailed     = errors.New("could not update the password, please try again later")
	ErrNotifyFailed             = errors.New("password was changed but the notification could not be delivered")
)

// SessionAccountKey - ключ сессии, под которым хранится учетная запись вызывающего.
const SessionAccountKey = "account"
