package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/amcbunq-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	doc := newUserDocument(user)
	_, err := r.db.collection(usersCollection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, storeError("create user", err)
	}

	return doc.toModel(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	var doc userDocument
	err := r.db.collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, storeError("get user by id", err)
	}

	return doc.toModel(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string, limit int) ([]model.User, error) {
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.db.collection(usersCollection).Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, storeError("find users by email", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode users", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

// SetVerificationStatus writes both status fields in one update so readers of
// either field observe the same value.
func (r *UserRepository) SetVerificationStatus(ctx context.Context, id string, status model.VerificationStatus, at time.Time) error {
	return r.updateByID(ctx, "update verification status", id, bson.M{
		"$set": bson.M{
			"kycStatus":          string(status),
			"verificationStatus": string(status),
			"updatedAt":          at,
		},
	})
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id string, at time.Time) error {
	return r.updateByID(ctx, "mark email verified", id, bson.M{
		"$set": bson.M{
			"emailVerified":   true,
			"emailVerifiedAt": at,
			"updatedAt":       at,
		},
	})
}

// AddAccount pushes the account only when no element with the same id exists.
// The id guard lives in the filter so check and insert are a single write.
func (r *UserRepository) AddAccount(ctx context.Context, id string, account model.Account, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":         id,
		"accounts.id": bson.M{"$ne": account.ID},
	}
	update := bson.M{
		"$push": bson.M{"accounts": newAccountDocument(account)},
		"$set":  bson.M{"updatedAt": at},
	}

	res, err := r.db.collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, storeError("add account", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// nothing matched: either the user is missing or the account is already there
	n, err := r.db.collection(usersCollection).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeError("check user existence", err)
	}
	if n == 0 {
		return false, model.ErrNotFound
	}
	return false, nil
}

func (r *UserRepository) PushNotifications(ctx context.Context, id string, notifications []model.Notification, at time.Time) error {
	docs := make([]notificationDocument, 0, len(notifications))
	for _, n := range notifications {
		docs = append(docs, newNotificationDocument(n))
	}

	return r.updateByID(ctx, "push notifications", id, bson.M{
		"$push": bson.M{"notifications": bson.M{"$each": docs}},
		"$set":  bson.M{"updatedAt": at},
	})
}

func (r *UserRepository) updateByID(ctx context.Context, action, id string, update bson.M) error {
	res, err := r.db.collection(usersCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storeError(action, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
