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

var _ model.TicketStore = (*TicketRepository)(nil)

type TicketRepository struct {
	db *Connection
}

func NewTicketRepository(db *Connection) *TicketRepository {
	return &TicketRepository{db: db}
}

type ticketDocument struct {
	ID        string                  `bson:"_id"`
	UserID    string                  `bson:"userId"`
	Subject   string                  `bson:"subject"`
	Category  string                  `bson:"category"`
	Priority  string                  `bson:"priority"`
	Status    string                  `bson:"status"`
	Messages  []ticketMessageDocument `bson:"messages"`
	CreatedAt time.Time               `bson:"createdAt"`
	UpdatedAt time.Time               `bson:"updatedAt"`
}

type ticketMessageDocument struct {
	Author    string    `bson:"author"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (r *TicketRepository) Create(ctx context.Context, ticket model.Ticket) (model.Ticket, error) {
	d := ticketDocument{
		ID:        ticket.ID,
		UserID:    ticket.UserID,
		Subject:   ticket.Subject,
		Category:  ticket.Category,
		Priority:  string(ticket.Priority),
		Status:    string(ticket.Status),
		Messages:  make([]ticketMessageDocument, 0, len(ticket.Messages)),
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
	for _, m := range ticket.Messages {
		d.Messages = append(d.Messages, ticketMessageDocument(m))
	}

	if _, err := r.db.collection(ticketsCollection).InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Ticket{}, model.ErrAlreadyExists
		}
		return model.Ticket{}, storeError("create ticket", err)
	}
	return d.toModel(), nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (model.Ticket, error) {
	var d ticketDocument
	err := r.db.collection(ticketsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Ticket{}, model.ErrNotFound
		}
		return model.Ticket{}, storeError("get ticket by id", err)
	}
	return d.toModel(), nil
}

func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]model.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.collection(ticketsCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeError("get tickets by user id", err)
	}

	var docs []ticketDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode tickets", err)
	}

	tickets := make([]model.Ticket, 0, len(docs))
	for _, d := range docs {
		tickets = append(tickets, d.toModel())
	}
	return tickets, nil
}

// AddMessage appends message to the conversation. An empty status leaves the
// ticket status unchanged.
func (r *TicketRepository) AddMessage(ctx context.Context, id string, message model.TicketMessage, status model.TicketStatus) error {
	set := bson.M{"updatedAt": message.CreatedAt}
	if status != "" {
		set["status"] = string(status)
	}

	res, err := r.db.collection(ticketsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"messages": ticketMessageDocument(message)},
		"$set":  set,
	})
	if err != nil {
		return storeError("add ticket message", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (d ticketDocument) toModel() model.Ticket {
	t := model.Ticket{
		ID:        d.ID,
		UserID:    d.UserID,
		Subject:   d.Subject,
		Category:  d.Category,
		Priority:  model.NotificationPriority(d.Priority),
		Status:    model.TicketStatus(d.Status),
		Messages:  make([]model.TicketMessage, 0, len(d.Messages)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, m := range d.Messages {
		t.Messages = append(t.Messages, model.TicketMessage(m))
	}
	return t
}
