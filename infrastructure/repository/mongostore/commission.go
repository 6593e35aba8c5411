package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commissionRepository struct {
	collection *mongo.Collection
}

func NewCommissionRepository(db *mongo.Database) repository.CommissionRepository {
	return &commissionRepository{
		collection: db.Collection(commissionsCollection),
	}
}

func (r *commissionRepository) CreateCommission(ctx context.Context, commission *domain.Commission) (*domain.Commission, error) {
	doc := commissionDocument{
		ID:         primitive.NewObjectID(),
		Number:     commission.Number,
		Percentage: toDouble(commission.Percentage),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir comissão")
	}

	return doc.toDomain(), nil
}

func (r *commissionRepository) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	oid, ok := objectID(commissionID)
	if !ok {
		return nil, nil
	}

	var doc commissionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar comissão")
	}
	return doc.toDomain(), nil
}

func (r *commissionRepository) ListCommissions(ctx context.Context) ([]*domain.Commission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar comissões")
	}

	var docs []commissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar comissões")
	}

	commissions := make([]*domain.Commission, 0, len(docs))
	for i := range docs {
		commissions = append(commissions, docs[i].toDomain())
	}
	return commissions, nil
}

func (r *commissionRepository) UpdateCommission(ctx context.Context, commissionID string, update *domain.CommissionUpdate) (*domain.Commission, error) {
	oid, ok := objectID(commissionID)
	if !ok {
		return nil, nil
	}

	set := bson.M{}
	if update.Number != nil {
		set["number"] = *update.Number
	}
	if update.Percentage != nil {
		set["percentage"] = toDouble(*update.Percentage)
	}
	if len(set) == 0 {
		return r.GetCommissionByID(ctx, commissionID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc commissionDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao atualizar comissão")
	}
	return doc.toDomain(), nil
}

func (r *commissionRepository) DeleteCommission(ctx context.Context, commissionID string) (*domain.Commission, error) {
	oid, ok := objectID(commissionID)
	if !ok {
		return nil, nil
	}

	var doc commissionDocument
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao remover comissão")
	}
	return doc.toDomain(), nil
}
