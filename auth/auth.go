package auth

import (
	"crypto/sha256"
	"log"
	"net/http"
	"time"

	"github.com/boj/redistore"
	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/sessions"

	"membersonly/config"
)

const SessionName = "membersonly-session"

// sessionMaxAge bounds both the cookie lifetime and the Redis key TTL.
const sessionMaxAge = 3600

var Store sessions.Store

var redisStore *redistore.RediStore

// Identity is the signed-in user as recorded in the session.
type Identity struct {
	Name  string
	Email string
}

// InitStore connects the Redis-backed session store. Session payloads
// are encrypted before they reach Redis, and the cookie itself is
// signed and encrypted with keys derived from the session secret.
func InitStore() error {
	cfg := config.AppConfig

	// Derive two 32-byte keys from the session secret to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(cfg.SessionSecret + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(cfg.SessionSecret + "encryption"))
	// Storage key for encrypting session payloads at rest
	storeKey := sha256.Sum256([]byte(cfg.SessionCryptSecret))

	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.RedisAddr, redis.DialPassword(cfg.RedisPassword))
		},
	}

	// Fail fast when Redis is unreachable rather than on the first request.
	conn := pool.Get()
	if _, err := conn.Do("PING"); err != nil {
		conn.Close()
		return err
	}
	conn.Close()

	rs, err := redistore.NewRediStoreWithPool(pool, authKey[:], encKey[:])
	if err != nil {
		return err
	}

	rs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	}
	rs.SetMaxAge(sessionMaxAge)
	rs.SetSerializer(newEncryptedSerializer(storeKey[:]))

	redisStore = rs
	Store = rs
	return nil
}

func CloseStore() {
	if redisStore == nil {
		return
	}
	if err := redisStore.Close(); err != nil {
		log.Printf("Error closing session store: %v", err)
	}
}

// CurrentUser reads the signed-in identity from the request's session.
// The second return value is false for visitors without a live session.
func CurrentUser(r *http.Request) (Identity, bool) {
	session, _ := Store.Get(r, SessionName)
	name, okName := session.Values["name"].(string)
	email, okEmail := session.Values["email"].(string)
	if !okName || !okEmail {
		return Identity{}, false
	}
	return Identity{Name: name, Email: email}, true
}

func SetSession(w http.ResponseWriter, r *http.Request, name, email string) error {
	session, _ := Store.Get(r, SessionName)
	session.Values["name"] = name
	session.Values["email"] = email
	return session.Save(r, w)
}

// ClearSession destroys the server-side session and expires the cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
