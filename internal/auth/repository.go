package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUserNotFound     = errors.New("unable to find user")
	ErrUserExists       = errors.New("user name already taken")
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordRequired = errors.New("password is required")
	ErrUserNameRequired = errors.New("user name is required")
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrHistoryUpdate    = errors.New("error updating the user login history")
)

const usersCollection = "users"

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateLoginHistory(ctx context.Context, username string, history []LoginEntry) error
}

type repository struct {
	users *mongo.Collection
}

// NewRepository binds the users collection and makes sure user names are
// unique at the store level.
func NewRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	users := db.Collection(usersCollection)

	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userName", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("userName_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user name index: %w", err)
	}

	return &repository{users: users}, nil
}

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	if user.LoginHistory == nil {
		user.LoginHistory = []LoginEntry{}
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := r.users.FindOne(ctx, bson.M{"userName": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateLoginHistory(ctx context.Context, username string, history []LoginEntry) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"userName": username},
		bson.M{"$set": bson.M{"loginHistory": history}},
	)
	return err
}
