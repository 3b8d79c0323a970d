package config

import (
	"os"
	"strings"
)

const (
	TokenFromEnv       = "env"
	TokenFromStateFile = "state_file"
	TokenFromTokenFile = "token_file"
)

// ResolveToken: env, después el campo token del archivo de estado, después
// el token.txt. Gana el primero no vacío; source queda vacío si no hay ninguno.
func ResolveToken(envToken, stateToken, tokenFile string) (token, source string) {
	if t := strings.TrimSpace(envToken); t != "" {
		return t, TokenFromEnv
	}
	if t := strings.TrimSpace(stateToken); t != "" {
		return t, TokenFromStateFile
	}
	if tokenFile != "" {
		if b, err := os.ReadFile(tokenFile); err == nil {
			if t := strings.TrimSpace(string(b)); t != "" {
				return t, TokenFromTokenFile
			}
		}
	}
	return "", ""
}

// BotAuth agrega el prefijo "Bot " si falta.
func BotAuth(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(token), "bot ") {
		return token
	}
	return "Bot " + token
}
