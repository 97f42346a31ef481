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

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type documentDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Name        string    `bson:"name"`
	Type        string    `bson:"type"`
	ContentType string    `bson:"contentType"`
	Size        int64     `bson:"size"`
	ObjectKey   string    `bson:"objectKey"`
	Status      string    `bson:"status"`
	UploadedAt  time.Time `bson:"uploadedAt"`
}

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	d := documentDocument{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Name:        doc.Name,
		Type:        string(doc.Type),
		ContentType: doc.ContentType,
		Size:        doc.Size,
		ObjectKey:   doc.ObjectKey,
		Status:      string(doc.Status),
		UploadedAt:  doc.UploadedAt,
	}
	if _, err := r.db.collection(documentsCollection).InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Document{}, model.ErrAlreadyExists
		}
		return model.Document{}, storeError("create document", err)
	}
	return d.toModel(), nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (model.Document, error) {
	var d documentDocument
	err := r.db.collection(documentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, storeError("get document by id", err)
	}
	return d.toModel(), nil
}

func (r *DocumentRepository) GetByUserID(ctx context.Context, userID string) ([]model.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	cursor, err := r.db.collection(documentsCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeError("get documents by user id", err)
	}

	var docs []documentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode documents", err)
	}

	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (d documentDocument) toModel() model.Document {
	return model.Document{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Type:        model.DocumentType(d.Type),
		ContentType: d.ContentType,
		Size:        d.Size,
		ObjectKey:   d.ObjectKey,
		Status:      model.DocumentStatus(d.Status),
		UploadedAt:  d.UploadedAt,
	}
}
