package controllers

import (
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/auth"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/middleware"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
)

type AuthController struct {
	oauth *auth.OAuthService
}

func NewAuthController(oauth *auth.OAuthService) *AuthController {
	return &AuthController{oauth: oauth}
}

// CurrentUser godoc
// @Summary Current user
// @Description Get the signed in user's profile and admin flag
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.OAuth2Error
// @Security BearerAuth
// @Router /api/auth/user [get]
func (ac *AuthController) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidToken, "User not authenticated"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Token godoc
// @Summary Issue access token
// @Description OAuth2 client credentials grant. The token acts on behalf of the user owning the client.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Must be client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client secret"
// @Param scope formData string false "Space separated scopes"
// @Success 200 {object} map[string]interface{} "access_token, token_type, expires_in"
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (ac *AuthController) Token(c *gin.Context) {
	if gt := c.PostForm("grant_type"); gt != oauth2.ClientCredentials.String() {
		log.WithField("grant_type", gt).Warn("Unsupported grant type")
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType, "Only client_credentials is supported"))
		return
	}
	if err := ac.oauth.GetServer().HandleTokenRequest(c.Writer, c.Request); err != nil {
		log.WithError(err).Error("Token request failed")
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, err.Error()))
	}
}
