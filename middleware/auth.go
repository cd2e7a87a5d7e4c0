package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"socialnet-api/logger"
	"socialnet-api/services"
	"socialnet-api/utils"
)

// UserIDKey is the gin context key holding the authenticated principal.
const UserIDKey = "user_id"

var (
	errNoToken      = errors.New("missing bearer token")
	errProvisioning = errors.New("user provisioning failed")
)

// Provisioner creates the identity row on first sight of a principal.
type Provisioner interface {
	Provision(ctx context.Context, in services.ProvisionInput) error
}

type Authenticator struct {
	secret      []byte
	issuer      string
	provisioner Provisioner
	provisioned sync.Map // user id -> struct{}
}

// NewAuthenticator validates HS256 tokens signed with secret. issuer is
// checked when non-empty; provisioner may be nil.
func NewAuthenticator(secret, issuer string, provisioner Provisioner) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer, provisioner: provisioner}
}

// Required rejects requests without a valid token, and answers 503 when the
// principal's user row could not be created.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.authenticate(c); err != nil {
			if errors.Is(err, errProvisioning) {
				utils.SendError(c, http.StatusServiceUnavailable, "Service unavailable", "Please retry shortly")
			} else {
				utils.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional sets the principal when a valid token is present and otherwise
// lets the request through anonymously. A principal that could not be
// provisioned is treated as anonymous.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.authenticate(c); err != nil && !errors.Is(err, errNoToken) {
			logger.Debug("ignoring invalid token on public route", zap.Error(err))
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) error {
	raw, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return err
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}
	userID := claimString(claims, "user_id")
	if userID == "" {
		userID = claimString(claims, "sub")
	}
	if userID == "" {
		return errors.New("token has no subject")
	}

	if err := a.provision(c.Request.Context(), userID, claims); err != nil {
		logger.Warn("user provisioning failed", zap.Error(err), zap.String("user_id", userID))
		return errProvisioning
	}

	c.Set(UserIDKey, userID)
	return nil
}

// provision creates the user row once per process; later requests for the
// same id skip the insert.
func (a *Authenticator) provision(ctx context.Context, userID string, claims jwt.MapClaims) error {
	if a.provisioner == nil {
		return nil
	}
	if _, ok := a.provisioned.Load(userID); ok {
		return nil
	}
	err := a.provisioner.Provision(ctx, services.ProvisionInput{
		ID:    userID,
		Name:  claimString(claims, "name"),
		Email: claimString(claims, "email"),
		Image: claimString(claims, "picture"),
	})
	if err != nil {
		return err
	}
	a.provisioned.Store(userID, struct{}{})
	return nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("authorization header must be Bearer <token>")
	}
	return strings.TrimSpace(parts[1]), nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
