package api

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
)

// identityClaims is the subset of the identity provider's token we care
// about: who the user is and whether the token is still live.
type identityClaims struct {
	Subject   string  `json:"sub"`
	Email     *string `json:"email"`
	ExpiresAt int64   `json:"exp"`
	IssuedAt  int64   `json:"iat"`
	Issuer    string  `json:"iss"`
}

// authMiddleware guards the portfolio endpoints. The caller only ever sees
// "invalid credentials"; the reason stays in the server log.
func (m ApiHandler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid credentials"})
		return
	}

	claims, err := parseIdentityToken(token, m.JwtDecodeToken)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warnf("rejected bearer token: %s", err.Error())
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid credentials"})
		return
	}

	c.Set("userAccountID", claims.Subject)
	c.Next()
}

func parseIdentityToken(jwtStr string, decodeToken string) (*identityClaims, error) {
	// first attempt: HS256 against the shared decode secret
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})

	// if the token isn't HS*, try ES256 against the issuer's JWKS
	if err != nil {
		esToken, esErr := parseES256Token(jwtStr)
		if esErr != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		token = esToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}
	claimsJSON, err := json.Marshal(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("error marshalling claims: %w", err)
	}

	claims := identityClaims{}
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, fmt.Errorf("error unmarshalling claims: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if time.Now().UTC().Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return &claims, nil
}

func parseES256Token(jwtStr string) (*jwt.Token, error) {
	header, unverified, err := decodeTokenUnverified(jwtStr)
	if err != nil {
		return nil, err
	}
	alg, _ := header["alg"].(string)
	if alg != "ES256" {
		return nil, fmt.Errorf("unsupported alg: %s", alg)
	}
	kid, _ := header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("missing kid")
	}
	if unverified.Issuer == "" {
		return nil, fmt.Errorf("missing iss")
	}

	jwksURL := strings.TrimRight(unverified.Issuer, "/") + "/.well-known/jwks.json"
	return jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getES256PublicKey(jwksURL, kid)
	})
}

func decodeTokenUnverified(jwtStr string) (map[string]any, *identityClaims, error) {
	parts := strings.Split(jwtStr, ".")
	if len(parts) < 2 {
		return nil, nil, fmt.Errorf("invalid JWT format")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT header: %w", err)
	}
	var header map[string]any
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JWT header: %w", err)
	}

	claimsBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT claims: %w", err)
	}
	claims := identityClaims{}
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JWT claims: %w", err)
	}

	return header, &claims, nil
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

// minimal subset of JWK fields needed for ES256 verification
type jwkKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

var (
	jwksCacheMu sync.RWMutex
	// cache key: jwksURL + "|" + kid
	jwksKeyCache = map[string]*ecdsa.PublicKey{}
)

func getES256PublicKey(jwksURL string, kid string) (*ecdsa.PublicKey, error) {
	cacheKey := jwksURL + "|" + kid
	jwksCacheMu.RLock()
	if k, ok := jwksKeyCache[cacheKey]; ok {
		jwksCacheMu.RUnlock()
		return k, nil
	}
	jwksCacheMu.RUnlock()

	resp, err := http.Get(jwksURL) // #nosec G107 - URL derived from token issuer
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch JWKS: http %d", resp.StatusCode)
	}

	var jwks jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	for _, k := range jwks.Keys {
		if k.Kid != kid {
			continue
		}
		if k.Kty != "EC" || k.Crv != "P-256" {
			return nil, fmt.Errorf("unsupported JWK key type/curve: kty=%s crv=%s", k.Kty, k.Crv)
		}
		x, err := base64URLDecodeToBigInt(k.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode JWK x: %w", err)
		}
		y, err := base64URLDecodeToBigInt(k.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to decode JWK y: %w", err)
		}
		pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}

		jwksCacheMu.Lock()
		jwksKeyCache[cacheKey] = pub
		jwksCacheMu.Unlock()

		return pub, nil
	}

	return nil, fmt.Errorf("kid not found in JWKS: %s", kid)
}

func base64URLDecodeToBigInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
