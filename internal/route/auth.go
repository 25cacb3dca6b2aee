package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountAuth(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.POST("/auth/checkin", func(c *gin.Context) {
		var req struct {
			Login string `json:"login"`
		}
		if !bindInput(c, &req) {
			return
		}
		exists, err := res.Checkin(c.Request.Context(), req.Login)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	})

	g.POST("/auth/login", func(c *gin.Context) {
		var req struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		}
		if !bindInput(c, &req) {
			return
		}
		payload, err := res.Login(c.Request.Context(), req.Login, req.Password)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, payload)
	})

	g.POST("/auth/register", func(c *gin.Context) {
		var req resolver.RegisterInput
		if !bindInput(c, &req) {
			return
		}
		payload, err := res.Register(c.Request.Context(), req)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, payload)
	})

	g.POST("/auth/logout", func(c *gin.Context) {
		ok, err := res.Logout(c.Request.Context(), viewer(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": ok})
	})

	g.POST("/auth/google", func(c *gin.Context) {
		var req struct {
			AccessToken string `json:"accessToken"`
		}
		if !bindInput(c, &req) {
			return
		}
		payload, err := res.GoogleAuth(c.Request.Context(), req.AccessToken)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, payload)
	})

	g.POST("/auth/password-reset", func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if !bindInput(c, &req) {
			return
		}
		reset, err := res.RequestPasswordReset(c.Request.Context(), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, reset)
	})

	g.POST("/auth/password-reset/verify", func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Token string `json:"token"`
		}
		if !bindInput(c, &req) {
			return
		}
		ok, err := res.VerifyResetKey(c.Request.Context(), req.Email, req.Token)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": ok})
	})

	g.POST("/auth/password-reset/confirm", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if !bindInput(c, &req) {
			return
		}
		reset, err := res.ResetPassword(c.Request.Context(), req.Email, req.Token, req.Password)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, reset)
	})
}
