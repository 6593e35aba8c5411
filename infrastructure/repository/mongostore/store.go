package mongostore

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection       = "users"
	productsCollection    = "products"
	commissionsCollection = "commissions"
	salesCollection       = "sales"
)

// New cria os repositórios sobre o banco informado
func New(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Users:       NewUserRepository(db),
		Products:    NewProductRepository(db),
		Commissions: NewCommissionRepository(db),
		Sales:       NewSaleRepository(db),
	}
}

// objectID converte o ID textual; ok é falso para formatos inválidos
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	return oids
}

// referência obrigatória: formato inválido é erro, não ausência
func referenceID(id string) (primitive.ObjectID, error) {
	oid, ok := objectID(id)
	if !ok {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

// valores monetários são gravados como double, o mesmo tipo numérico das bases existentes
func toDouble(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func fromDouble(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
