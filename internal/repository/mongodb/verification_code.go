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

var _ model.VerificationCodeStore = (*VerificationCodeRepository)(nil)

// VerificationCodeRepository keeps one pending code per user, keyed by user id.
type VerificationCodeRepository struct {
	db *Connection
}

func NewVerificationCodeRepository(db *Connection) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

type verificationCodeDocument struct {
	UserID   string    `bson:"_id"`
	Email    string    `bson:"email"`
	Code     string    `bson:"code"`
	Expires  time.Time `bson:"expires"`
	Attempts int       `bson:"attempts"`
}

func (r *VerificationCodeRepository) Put(ctx context.Context, code model.VerificationCode) error {
	d := verificationCodeDocument(code)
	_, err := r.db.collection(verificationCodesCollection).ReplaceOne(ctx,
		bson.M{"_id": code.UserID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return storeError("put verification code", err)
	}
	return nil
}

func (r *VerificationCodeRepository) Get(ctx context.Context, userID string) (model.VerificationCode, error) {
	var d verificationCodeDocument
	err := r.db.collection(verificationCodesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.VerificationCode{}, model.ErrNotFound
		}
		return model.VerificationCode{}, storeError("get verification code", err)
	}
	return model.VerificationCode(d), nil
}

func (r *VerificationCodeRepository) UseAttempt(ctx context.Context, userID string, maxAttempts int) (bool, error) {
	coll := r.db.collection(verificationCodesCollection)
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": userID, "attempts": bson.M{"$lt": maxAttempts}},
		bson.M{"$inc": bson.M{"attempts": 1}})
	if err != nil {
		return false, storeError("use verification attempt", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeError("check verification code", err)
	}
	if n == 0 {
		return false, model.ErrNotFound
	}
	return false, nil
}

func (r *VerificationCodeRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.collection(verificationCodesCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return storeError("delete verification code", err)
	}
	return nil
}
