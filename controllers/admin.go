package controllers

import (
	"net/http"

	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Admins *services.AdminService
	Log    *zap.Logger
}

type AdminLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

type AdminInput struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha"`
}

type AdminResetInput struct {
	AdminID  uint   `json:"id_admin" binding:"required"`
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

func (in AdminInput) toService() services.AdminInput {
	return services.AdminInput{Name: in.Name, Email: in.Email, Password: in.Password}
}

// Login answers with a token, or with redefinir=true when the account must
// reset its credentials first.
func (ac *AdminController) Login(c *gin.Context) {
	var input AdminLoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := ac.Admins.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao fazer login")
		return
	}
	if result.MustReset {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Redefinição de credenciais necessária",
			"redefinir": true,
			"id_admin":  result.Admin.ID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login realizado com sucesso",
		"token":   result.Token,
	})
}

func (ac *AdminController) Register(c *gin.Context) {
	var input AdminInput
	if !bindJSON(c, &input) {
		return
	}

	admin, token, err := ac.Admins.Register(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao registrar administrador")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Administrador registrado com sucesso",
		"token":   token,
		"admin":   admin,
	})
}

func (ac *AdminController) Reset(c *gin.Context) {
	var input AdminResetInput
	if !bindJSON(c, &input) {
		return
	}

	admin, err := ac.Admins.CompleteReset(c.Request.Context(), input.AdminID, services.AdminInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao redefinir credenciais")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Credenciais redefinidas com sucesso",
		"admin":   admin,
	})
}

func (ac *AdminController) Me(c *gin.Context) {
	id, ok := utils.CurrentAdminID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Token inválido")
		return
	}
	admin, err := ac.Admins.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao buscar administrador")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id_admin": admin.ID,
		"nome":     admin.Name,
		"email":    admin.Email,
	})
}

func (ac *AdminController) List(c *gin.Context) {
	admins, err := ac.Admins.List(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao listar administradores")
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (ac *AdminController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	admin, err := ac.Admins.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao buscar administrador")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (ac *AdminController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input AdminInput
	if !bindJSON(c, &input) {
		return
	}
	admin, err := ac.Admins.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao atualizar administrador")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (ac *AdminController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	requester, _ := utils.CurrentAdminID(c)
	if err := ac.Admins.Delete(c.Request.Context(), requester, id); err != nil {
		respondError(c, ac.Log, err, "Erro ao excluir administrador")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Administrador excluído com sucesso")
}
