package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"cartify/internal/auth"
	apperrors "cartify/internal/errors"
	"cartify/internal/model"
)

// sessionKey is where the verified session is stored in the echo context.
const sessionKey = "session"

// AccessTokenCookie is the cookie the access token is read from first.
const AccessTokenCookie = "accesstoken"

// Session is the authenticated identity attached to a request.
type Session struct {
	User   *model.User
	Claims *auth.AccessClaims
}

// AccessTokenParser verifies access tokens.
type AccessTokenParser interface {
	ParseAccessToken(token string) (*auth.AccessClaims, error)
}

// UserResolver loads the user a token was issued to.
type UserResolver interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RequireSession returns middleware that requires a valid access token, taken from
// the accesstoken cookie or a Bearer Authorization header. The token must
// verify, must not be on the deny list and must belong to an existing user.
func RequireSession(parser AccessTokenParser, denyList auth.TokenStoreInterface, users UserResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  sessionKey,
		TokenLookup: "cookie:" + AccessTokenCookie + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			// A present cookie decides the outcome; the header is only a
			// fallback when no cookie was sent.
			if ck, err := c.Cookie(AccessTokenCookie); err == nil && ck.Value != "" && ck.Value != token {
				token = ck.Value
			}
			session, err := resolveSession(c.Request().Context(), token, parser, denyList, users)
			if err != nil {
				return nil, &tokenError{err: err}
			}
			return session, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var te *tokenError
			if errors.As(err, &te) {
				return te.err
			}
			// Only extractor errors remain: no token was presented.
			return apperrors.ErrMissingToken
		},
	})
}

// tokenError marks failures that happened after a token was extracted.
type tokenError struct {
	err error
}

func (e *tokenError) Error() string { return e.err.Error() }
func (e *tokenError) Unwrap() error { return e.err }

func resolveSession(ctx context.Context, token string, parser AccessTokenParser, denyList auth.TokenStoreInterface, users UserResolver) (*Session, error) {
	claims, err := parser.ParseAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if denyList != nil {
		denied, err := denyList.IsAccessTokenDenied(ctx, claims.ID)
		if err != nil || denied {
			return nil, apperrors.ErrInvalidToken
		}
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Claims: claims}, nil
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c echo.Context) (*Session, bool) {
	s, ok := c.Get(sessionKey).(*Session)
	return s, ok && s != nil && s.User != nil
}

// CurrentUser returns the authenticated user or ErrMissingToken.
func CurrentUser(c echo.Context) (*model.User, error) {
	s, ok := CurrentSession(c)
	if !ok {
		return nil, apperrors.ErrMissingToken
	}
	return s.User, nil
}
