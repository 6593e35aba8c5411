package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type saleDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Product primitive.ObjectID `bson:"product"`
	UserID  primitive.ObjectID `bson:"userId"`
	Total   float64            `bson:"total"`
	Date    time.Time          `bson:"date"`
}

func (d *saleDocument) toDomain() *domain.Sale {
	return &domain.Sale{
		ID:        d.ID.Hex(),
		ProductID: d.Product.Hex(),
		UserID:    d.UserID.Hex(),
		Total:     fromDouble(d.Total),
		Date:      d.Date,
	}
}

type saleRepository struct {
	collection *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) repository.SaleRepository {
	return &saleRepository{
		collection: db.Collection(salesCollection),
	}
}

func (r *saleRepository) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	productID, err := referenceID(sale.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "produto")
	}
	userID, err := referenceID(sale.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "usuário")
	}

	doc := saleDocument{
		ID:      primitive.NewObjectID(),
		Product: productID,
		UserID:  userID,
		Total:   toDouble(sale.Total),
		Date:    sale.Date.UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir venda")
	}

	return doc.toDomain(), nil
}

func (r *saleRepository) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	oid, ok := objectID(saleID)
	if !ok {
		return nil, nil
	}

	var doc saleDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar venda")
	}
	return doc.toDomain(), nil
}

func (r *saleRepository) FindSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	query := bson.M{}
	if filter.UserID != "" {
		oid, ok := objectID(filter.UserID)
		if !ok {
			return []*domain.Sale{}, nil
		}
		query["userId"] = oid
	}
	if filter.From != nil {
		query["date"] = bson.M{"$gte": filter.From.UTC()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar vendas")
	}

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar vendas")
	}

	sales := make([]*domain.Sale, 0, len(docs))
	for i := range docs {
		sales = append(sales, docs[i].toDomain())
	}
	return sales, nil
}

func (r *saleRepository) UpdateSale(ctx context.Context, saleID string, update *domain.SaleUpdate) (*domain.Sale, error) {
	oid, ok := objectID(saleID)
	if !ok {
		return nil, nil
	}

	set := bson.M{}
	if update.ProductID != nil {
		productID, err := referenceID(*update.ProductID)
		if err != nil {
			return nil, errors.Wrap(err, "produto")
		}
		set["product"] = productID
	}
	if update.UserID != nil {
		userID, err := referenceID(*update.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "usuário")
		}
		set["userId"] = userID
	}
	if update.Total != nil {
		set["total"] = toDouble(*update.Total)
	}
	if update.Date != nil {
		set["date"] = update.Date.UTC()
	}
	if len(set) == 0 {
		return r.GetSaleByID(ctx, saleID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc saleDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao atualizar venda")
	}
	return doc.toDomain(), nil
}

func (r *saleRepository) DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	oid, ok := objectID(saleID)
	if !ok {
		return nil, nil
	}

	var doc saleDocument
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao remover venda")
	}
	return doc.toDomain(), nil
}
