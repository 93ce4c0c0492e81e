package db

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/crypto/bcrypt"

	"membersonly/config"
	"membersonly/models"
)

// bcryptCost is fixed; changing it only affects hashes created afterwards.
const bcryptCost = 12

// bcrypt reads at most 72 bytes and GenerateFromPassword rejects longer
// input instead of truncating. Hashing and verification cap identically.
const bcryptMaxBytes = 72

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore is the credential store: user records addressed by email or id.
// Email uniqueness is an application-level existence check, not an index
// constraint, so Create reports ErrEmailTaken itself.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

var (
	client *mongo.Client

	// Users is the process-wide credential store handle, set once by InitDB.
	Users UserStore
)

// InitDB connects to the credential store and refuses to start without it.
func InitDB(ctx context.Context) {
	cfg := config.AppConfig

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Database unreachable at startup: %v", err)
	}

	Users = NewMongoUserStore(client.Database(cfg.DBName).Collection("users"))

	if err := EnsureAdmin(ctx); err != nil {
		log.Fatalf("Error seeding admin account: %v", err)
	}
}

// Close disconnects from the credential store at shutdown.
func Close(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}

// EnsureAdmin creates the configured admin account when no admin exists.
// Promote and demote are admin-gated, so the first admin has to come from
// outside the request path.
func EnsureAdmin(ctx context.Context) error {
	count, err := Users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := config.AppConfig
	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	// Stored emails are lower-cased and trimmed; FindByEmail matches exactly.
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	admin := &models.User{
		Name:         strings.TrimSpace(cfg.AdminName),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := Users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin account created for %s. Change ADMIN_PASSWORD after first login.", email)
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	return err == nil
}

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}
