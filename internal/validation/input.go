package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MinNameLength        = 2
	MaxNameLength        = 100
	MaxLocationLength    = 500
	MinPhoneLength       = 5
	MaxPhoneLength       = 20
	MinPasswordLength    = 6
	MaxPasswordLength    = 72
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
)

var phoneRegex = regexp.MustCompile(`^[+]?[0-9()\-\s]+$`)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateDescription проверяет текст заявления.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("текст заявления обязателен")
	}
	return ValidateLength("текст заявления", description, MinDescriptionLength, MaxDescriptionLength)
}

// ValidateName проверяет имя или фамилию гражданина.
func ValidateName(fieldName, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s обязательно", fieldName)
	}
	return ValidateLength(fieldName, name, MinNameLength, MaxNameLength)
}

// ValidatePhone проверяет номер телефона, пустой допустим.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if err := ValidateLength("номер телефона", phone, MinPhoneLength, MaxPhoneLength); err != nil {
		return err
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("номер телефона содержит недопустимые символы")
	}
	return nil
}

// ValidateLocation проверяет адрес происшествия, пустой допустим.
func ValidateLocation(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	return ValidateLength("адрес происшествия", location, 0, MaxLocationLength)
}

// ValidateUsername проверяет логин сотрудника.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("логин обязателен")
	}
	return ValidateLength("логин", username, MinUsernameLength, MaxUsernameLength)
}

// ValidatePassword проверяет пароль.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("пароль обязателен")
	}
	// bcrypt ограничивает вход 72 байтами.
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть не более %d символов", MaxPasswordLength)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	return nil
}
