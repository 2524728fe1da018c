package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// secretsDir - путь по умолчанию для Docker Secrets. SECRETS_DIR переопределяет его.
var secretsDir = "/run/secrets"

func secretsPath() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return secretsDir
}

// ReadSecret читает секрет из файла в стандартном пути Docker Secrets.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", secretsPath(), secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

// ReadOptionalSecret как ReadSecret, но отсутствие файла не является ошибкой.
func ReadOptionalSecret(secretName string) (string, error) {
	secret, err := ReadSecret(secretName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return secret, nil
}
