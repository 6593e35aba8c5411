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

type commissionDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Number     int                `bson:"number"`
	Percentage float64            `bson:"percentage"`
}

func (d *commissionDocument) toDomain() *domain.Commission {
	return &domain.Commission{
		ID:         d.ID.Hex(),
		Number:     d.Number,
		Percentage: fromDouble(d.Percentage),
	}
}

type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Stock       int                  `bson:"stock"`
	Image       *string              `bson:"image,omitempty"`
	Price       float64              `bson:"price"`
	Commissions []commissionDocument `bson:"commissions"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d *productDocument) toDomain() *domain.Product {
	commissions := make([]domain.Commission, 0, len(d.Commissions))
	for i := range d.Commissions {
		commissions = append(commissions, *d.Commissions[i].toDomain())
	}

	return &domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Stock:       d.Stock,
		Image:       d.Image,
		Price:       fromDouble(d.Price),
		Commissions: commissions,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// snapshots das comissões embutidas no produto; itens sem ID válido recebem um novo
func commissionSnapshots(commissions []domain.Commission) []commissionDocument {
	docs := make([]commissionDocument, 0, len(commissions))
	for _, c := range commissions {
		oid, ok := objectID(c.ID)
		if !ok {
			oid = primitive.NewObjectID()
		}
		docs = append(docs, commissionDocument{
			ID:         oid,
			Number:     c.Number,
			Percentage: toDouble(c.Percentage),
		})
	}
	return docs
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{
		collection: db.Collection(productsCollection),
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Title:       product.Title,
		Description: product.Description,
		Stock:       product.Stock,
		Image:       product.Image,
		Price:       toDouble(product.Price),
		Commissions: commissionSnapshots(product.Commissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir produto")
	}

	return doc.toDomain(), nil
}

func (r *productRepository) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	oid, ok := objectID(productID)
	if !ok {
		return nil, nil
	}

	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar produto")
	}
	return doc.toDomain(), nil
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	oids := objectIDs(productIDs)
	if len(oids) == 0 {
		return []*domain.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *productRepository) find(ctx context.Context, filter bson.M) ([]*domain.Product, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar produtos")
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar produtos")
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, productID string, update *domain.ProductUpdate) (*domain.Product, error) {
	oid, ok := objectID(productID)
	if !ok {
		return nil, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Price != nil {
		set["price"] = toDouble(*update.Price)
	}
	if update.Commissions != nil {
		set["commissions"] = commissionSnapshots(*update.Commissions)
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID string) (*domain.Product, error) {
	oid, ok := objectID(productID)
	if !ok {
		return nil, nil
	}

	var doc productDocument
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao remover produto")
	}
	return doc.toDomain(), nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID string) (*domain.Product, error) {
	oid, ok := objectID(productID)
	if !ok {
		return nil, nil
	}

	filter := bson.M{"_id": oid, "stock": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"stock": -1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	product, err := r.findOneAndUpdate(ctx, filter, update)
	if err != nil || product != nil {
		return product, err
	}

	// nenhum documento casou: produto inexistente ou sem estoque
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao verificar produto")
	}
	if count == 0 {
		return nil, nil
	}
	return nil, repository.ErrOutOfStock
}

func (r *productRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao atualizar produto")
	}
	return doc.toDomain(), nil
}
