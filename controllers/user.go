package controllers

import (
	"net/http"

	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	Users *services.UserService
	Log   *zap.Logger
}

type UserInput struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha"`
	Role     string `json:"tipo_usuario" binding:"required"`
}

type UserLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

type BulkDeleteInput struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func (in UserInput) toService() services.UserInput {
	return services.UserInput{Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role}
}

func (uc *UserController) List(c *gin.Context) {
	page, paged := utils.ParsePagination(c)
	var pp *utils.Pagination
	if paged {
		pp = &page
	}
	users, total, err := uc.Users.List(c.Request.Context(), pp)
	if err != nil {
		respondError(c, uc.Log, err, "Erro ao listar usuários")
		return
	}
	if paged {
		c.JSON(http.StatusOK, gin.H{"data": users, "meta": utils.NewPageMeta(page, total)})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := uc.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.Log, err, "Erro ao buscar usuário")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) Create(c *gin.Context) {
	var input UserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Users.Create(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, uc.Log, err, "Erro ao criar usuário")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (uc *UserController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input UserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Users.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, uc.Log, err, "Erro ao atualizar usuário")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := uc.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, uc.Log, err, "Erro ao excluir usuário")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Usuário excluído com sucesso")
}

// BulkDelete always answers 200 with the per-id outcome.
func (uc *UserController) BulkDelete(c *gin.Context) {
	var input BulkDeleteInput
	if !bindJSON(c, &input) {
		return
	}
	c.JSON(http.StatusOK, uc.Users.BulkDelete(c.Request.Context(), input.IDs))
}

// Login is used by the collectors' app. No session token is issued.
func (uc *UserController) Login(c *gin.Context) {
	var input UserLoginInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, uc.Log, err, "Erro ao fazer login")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login realizado com sucesso",
		"usuario": user,
	})
}
