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
)

type userDocument struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Name                  string             `bson:"name"`
	Email                 string             `bson:"email"`
	Password              string             `bson:"password"`
	ExpectedMonthlyIncome float64            `bson:"expectedMonthlyIncome"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                    d.ID.Hex(),
		Name:                  d.Name,
		Email:                 d.Email,
		PasswordHash:          d.Password,
		ExpectedMonthlyIncome: fromDouble(d.ExpectedMonthlyIncome),
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{
		collection: db.Collection(usersCollection),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	doc := userDocument{
		ID:                    primitive.NewObjectID(),
		Name:                  user.Name,
		Email:                 user.Email,
		Password:              user.PasswordHash,
		ExpectedMonthlyIncome: toDouble(user.ExpectedMonthlyIncome),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicateKey
		}
		return nil, errors.Wrap(err, "erro ao inserir usuário")
	}

	return doc.toDomain(), nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar usuário")
	}
	return doc.toDomain(), nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, userIDs []string) ([]*domain.User, error) {
	oids := objectIDs(userIDs)
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *userRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar usuários")
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar usuários")
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, userID string, update *domain.UserUpdate) error {
	oid, ok := objectID(userID)
	if !ok {
		return repository.ErrInvalidID
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.PasswordHash != nil {
		set["password"] = *update.PasswordHash
	}
	if update.ExpectedMonthlyIncome != nil {
		set["expectedMonthlyIncome"] = toDouble(*update.ExpectedMonthlyIncome)
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return errors.Wrap(err, "erro ao atualizar usuário")
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	oid, ok := objectID(userID)
	if !ok {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, errors.Wrap(err, "erro ao remover usuário")
	}
	return result.DeletedCount > 0, nil
}
