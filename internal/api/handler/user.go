package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/log"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

type updateIncomeResponse struct {
	Message     string       `json:"message"`
	UpdatedUser *domain.User `json:"updatedUser"`
}

type changePasswordResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// RegisterUser cria um novo usuário
func RegisterUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - RegisterUser")

		var req domain.RegisterUserRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		// Validar campos obrigatórios
		if req.Name == "" || req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios", nil)
			return
		}

		user, err := service.Register(r.Context(), &req)
		if err != nil {
			logger.Error(err)
			writeAuthError(w, err, "Erro ao criar usuário")
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - Login")

		var req domain.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios", nil)
			return
		}

		user, token, err := service.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if authenticating.IsCredentialsError(err) {
				logger.WithError(err).Warn("Falha no login")
			} else {
				logger.WithError(err).Error("Erro ao realizar login")
			}
			writeAuthError(w, err, "Erro interno ao realizar login")
			return
		}

		writeJSON(w, http.StatusOK, domain.LoginResponse{
			Message: "Login realizado com sucesso",
			User:    user,
			Token:   token,
		})
	}
}

// ListUsers lista todos os usuários
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logger = logger.WithField("user_id", claims.UserID)
		}
		logger.Info("INIT - ListUsers")

		users, err := service.ListUsers(r.Context())
		if err != nil {
			logger.Error(err)
			writeAuthError(w, err, "Erro ao listar usuários")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}

func UpdateExpectedMonthlyIncome(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - UpdateExpectedMonthlyIncome")

		var req domain.UpdateExpectedIncomeRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.UserID == "" || req.ExpectedMonthlyIncome == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "userId e expectedMonthlyIncome são obrigatórios", nil)
			return
		}

		user, err := service.UpdateExpectedMonthlyIncome(r.Context(), req.UserID, *req.ExpectedMonthlyIncome)
		if err != nil {
			logger.Error(err)
			writeAuthError(w, err, "Erro ao atualizar a expectativa mensal")
			return
		}

		writeJSON(w, http.StatusOK, updateIncomeResponse{
			Message:     "Expectativa mensal atualizada",
			UpdatedUser: user,
		})
	}
}

func ChangePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - ChangePassword")

		userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")
		if userID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
			return
		}

		var req domain.ChangePasswordRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.CurrentPassword == "" || req.NewPassword == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Senha atual e nova senha são obrigatórias", nil)
			return
		}

		user, err := service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			logger.Error(err)
			writeAuthError(w, err, "Erro ao alterar senha")
			return
		}

		writeJSON(w, http.StatusOK, changePasswordResponse{
			Message: "Senha atualizada com sucesso",
			User:    user,
		})
	}
}

func DeleteUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - DeleteUser")

		userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

		if err := service.DeleteUser(r.Context(), userID); err != nil {
			logger.Error(err)
			writeAuthError(w, err, "Erro ao remover usuário")
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "Usuário removido com sucesso"})
	}
}
