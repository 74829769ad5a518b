package httpx

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/oauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/survey-api/config"
	"github.com/mbolis/survey-api/storage"
)

func NewBearerServer(users storage.UserRepository, cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(users), nil)
}

type refreshGrant struct {
	tokenID    string
	expiration time.Time
}

// credentialsVerifier authenticates users against the injected repository
// and keeps issued refresh grants in process memory: refresh tokens do not
// survive a restart, access tokens do (they are self-contained).
type credentialsVerifier struct {
	users storage.UserRepository

	mu     sync.Mutex
	grants map[string]refreshGrant // keyed by refresh token id
}

func CredentialsVerifier(users storage.UserRepository) oauth.CredentialsVerifier {
	return &credentialsVerifier{
		users:  users,
		grants: map[string]refreshGrant{},
	}
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	user, err := cs.users.FindByEmail(r.Context(), username)
	if err != nil {
		return err
	}

	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
}

func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.grants[credential+":"+refreshTokenID] = refreshGrant{
		tokenID:    tokenID,
		expiration: time.Now().Add(8760 * time.Hour),
	}
	return nil
}

func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// refresh grants are one-shot
	key := credential + ":" + refreshTokenID
	grant, ok := cs.grants[key]
	delete(cs.grants, key)

	if !ok || grant.tokenID != tokenID {
		return errors.New("could not refresh")
	}
	if grant.expiration.Before(time.Now()) {
		return errors.New("could not refresh")
	}
	return nil
}

func (cs *credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	user, err := cs.users.FindByEmail(r.Context(), credential)
	if err != nil {
		return nil, err
	}
	return map[string]string{"user_id": user.ID}, nil
}

func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
