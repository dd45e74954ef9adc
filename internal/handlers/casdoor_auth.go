package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/config"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

// IdentityProvider is the part of Casdoor the HTTP layer talks to
type IdentityProvider interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
	GetSigninUrl(redirectURI string) string
	// ExchangeCode trades an OAuth authorization code for an access token
	ExchangeCode(code, state string) (string, error)
}

type casdoorProvider struct {
	client *casdoorsdk.Client
}

// NewCasdoorProvider builds an IdentityProvider backed by the Casdoor SDK
func NewCasdoorProvider(cfg config.CasdoorConfig) IdentityProvider {
	return &casdoorProvider{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (p *casdoorProvider) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	return p.client.ParseJwtToken(token)
}

func (p *casdoorProvider) GetSigninUrl(redirectURI string) string {
	return p.client.GetSigninUrl(redirectURI)
}

func (p *casdoorProvider) ExchangeCode(code, state string) (string, error) {
	token, err := p.client.GetOAuthToken(code, state)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	provider IdentityProvider
	userRepo repositories.UserRepository
}

func NewCasdoorAuthMiddleware(provider IdentityProvider, userRepo repositories.UserRepository) *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		provider: provider,
		userRepo: userRepo,
	}
}

// AuthMiddleware rejects requests without a valid bearer token
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": err.Error(),
			})
			return
		}

		user, err := cam.authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": err.Error(),
			})
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the user when a valid token is present and
// otherwise lets the request through anonymously
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Next()
			return
		}

		if user, err := cam.authenticate(c.Request.Context(), token); err == nil {
			setUser(c, user)
		}

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("authorization header missing")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return parts[1], nil
}

func setUser(c *gin.Context, user *models.User) {
	c.Set("user_id", user.ID)
	c.Set("user", user)
	c.Set("user_email", user.Email)
}

func (cam *CasdoorAuthMiddleware) authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := cam.provider.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return cam.extractUserFromClaims(ctx, claims)
}

// extractUserFromClaims resolves the directory record for the token subject,
// falling back to the identity carried in the claims
func (cam *CasdoorAuthMiddleware) extractUserFromClaims(ctx context.Context, claims *casdoorsdk.Claims) (*models.User, error) {
	if claims.Id == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	user, err := cam.userRepo.GetByID(ctx, claims.Id)
	if err != nil {
		user = createUserFromClaims(claims)
	}
	return user, nil
}

func createUserFromClaims(claims *casdoorsdk.Claims) *models.User {
	var avatar *string
	if claims.Avatar != "" {
		a := claims.Avatar
		avatar = &a
	}

	now := time.Now()
	return &models.User{
		ID:            claims.Id,
		Name:          claims.Name,
		DisplayName:   claims.DisplayName,
		Email:         claims.Email,
		AvatarURL:     avatar,
		EmailVerified: claims.EmailVerified,
		IsAdmin:       claims.IsAdmin,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}
