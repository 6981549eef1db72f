package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"inventory-catalog/internal/models"
)

const (
	CollectionName = "products"

	defaultTimeout = 5 * time.Second
	queryTimeout   = 10 * time.Second
)

var ErrProductNotFound = errors.New("product not found")

// CollectionProvider entrega colecciones sobre la conexión compartida
type CollectionProvider interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

type ProductRepository struct {
	db      CollectionProvider
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewProductRepository(db CollectionProvider, timeout time.Duration, log *zap.Logger) *ProductRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductRepository{
		db:      db,
		timeout: timeout,
		log:     log,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// productDocument es el layout persistido. El _id puede ser un ObjectID o,
// en registros antiguos, un string plano.
type productDocument struct {
	ID             interface{} `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
}

func (d productDocument) toProduct() (models.Product, bool) {
	id, ok := externalID(d.ID)
	if !ok {
		return models.Product{}, false
	}
	p := d.Product
	p.ID = id
	return p, true
}

func externalID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case primitive.ObjectID:
		if id.IsZero() {
			return "", false
		}
		return id.Hex(), true
	case string:
		return id, id != ""
	default:
		return "", false
	}
}

// IDFilter resuelve un id externo al filtro de búsqueda. Si el id es un ObjectID
// válido se busca tanto por ObjectID como por el string original.
func IDFilter(id string) bson.M {
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": []bson.M{
			{models.FieldID: objID},
			{models.FieldID: id},
		}}
	}
	return bson.M{models.FieldID: id}
}

// sanitizeUpdate copia el patch sin los campos que el cliente no puede escribir
func sanitizeUpdate(update bson.M) bson.M {
	safe := make(bson.M, len(update)+1)
	for key, value := range update {
		switch key {
		case models.FieldID, "id", models.FieldCreatedAt, models.FieldUpdatedAt:
			continue
		}
		safe[key] = value
	}
	return safe
}

func (r *ProductRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	coll, err := r.db.Collection(ctx, CollectionName)
	if err != nil {
		return nil, fmt.Errorf("products collection: %w", err)
	}
	return coll, nil
}

// Create crea un nuevo producto y completa su ID y timestamps
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now

	objID := primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, productDocument{ID: objID, Product: *product}); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	product.ID = objID.Hex()
	return nil
}

// List obtiene todos los productos. Los documentos sin _id utilizable se omiten.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, ok := doc.toProduct()
		if !ok {
			r.log.Warn("skipping product without id", zap.String("name", doc.Name))
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// Update aplica un patch parcial y retorna el documento actualizado.
// Retorna ErrProductNotFound si ningún documento coincide.
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) (*models.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set := sanitizeUpdate(update)
	set[models.FieldUpdatedAt] = r.now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = coll.FindOneAndUpdate(ctx, IDFilter(id), bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		r.log.Error("update product failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	product, ok := doc.toProduct()
	if !ok {
		r.log.Warn("updated product has no usable id", zap.String("id", id))
		return nil, ErrProductNotFound
	}

	return &product, nil
}

// Delete elimina como máximo un producto y reporta si se borró alguno
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := coll.DeleteOne(ctx, IDFilter(id))
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}

	return result.DeletedCount > 0, nil
}
