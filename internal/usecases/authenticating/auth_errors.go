package authenticating

import (
	"errors"
	"fmt"
)

// Resultados recuperáveis das operações de conta, devolvidos ao cliente em details.error.
// ResultRejected cobre usuário inexistente e email já cadastrado.
const (
	ResultRejected        = 1
	ResultInvalidPassword = 2
)

var (
	ErrInvalidCredentials     = errors.New("credenciais inválidas")
	ErrUserNotFound           = errors.New("usuário não encontrado")
	ErrInvalidToken           = errors.New("token inválido")
	ErrExpiredToken           = errors.New("token expirado")
	ErrUserAlreadyExists      = errors.New("usuário já existe")
	ErrInvalidCurrentPassword = errors.New("senha atual incorreta")

	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")

	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// AuthError é um erro com contexto adicional para autenticação
type AuthError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	UserID  string // ID do usuário envolvido (quando aplicável)
	Result  int    // Resultado recuperável (1 ou 2), zero quando não se aplica
	Details string // Detalhes adicionais
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError cria um novo erro de autenticação
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// NewUserAuthError cria um erro com o usuário envolvido e o resultado recuperável
func NewUserAuthError(baseErr error, code string, userID string, result int, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		UserID:  userID,
		Result:  result,
		Details: details,
	}
}

// IsCredentialsError verifica se o erro está relacionado a credenciais inválidas
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsTokenError verifica se o erro está relacionado ao token de acesso
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken)
}
