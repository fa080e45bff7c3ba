package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Interaction is one audited exchange with the AI pipeline.
type Interaction struct {
	ID        string    `bson:"_id" json:"id"`
	Identity  string    `bson:"identity" json:"identite"`
	Kind      string    `bson:"kind" json:"type"` // ask | commande
	Query     string    `bson:"query" json:"requete"`
	Outcome   string    `bson:"outcome" json:"resultat"` // ok | erreur
	Detail    string    `bson:"detail,omitempty" json:"detail,omitempty"`
	LatencyMS int64     `bson:"latency_ms" json:"latenceMs"`
	CreatedAt time.Time `bson:"created_at" json:"creeLe"`
}

type InteractionRepo interface {
	Insert(ctx context.Context, it *Interaction) error
	ListByIdentity(ctx context.Context, identity string, limit int) ([]Interaction, error)
}

type interactionRepo struct {
	col *mongo.Collection
}

func NewInteractionRepo(db *mongo.Database) InteractionRepo {
	return &interactionRepo{col: db.Collection("interactions")}
}

func (r *interactionRepo) Insert(ctx context.Context, it *Interaction) error {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, it)
	return err
}

func (r *interactionRepo) ListByIdentity(ctx context.Context, identity string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"identity": identity},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Interaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
