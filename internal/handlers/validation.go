package handlers

import (
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"inventory-catalog/internal/models"
)

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	errMissingFields   = &ValidationError{Field: "name,category,price,stock", Message: "Missing required fields"}
	errInvalidPrice    = &ValidationError{Field: "price", Message: "Invalid price value"}
	errInvalidStock    = &ValidationError{Field: "stock", Message: "Invalid stock value"}
	errInvalidMinStock = &ValidationError{Field: "minStock", Message: "Invalid minStock value"}
)

// maxWholeNumber es el mayor entero que un número JSON representa sin pérdida (2^53)
const maxWholeNumber = 1 << 53

var fallbackValidate = validator.New()

// validate retorna el motor de validación de gin
func validate() *validator.Validate {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v
	}
	return fallbackValidate
}

func valid(v interface{}, tag string) bool {
	return validate().Var(v, tag) == nil
}

// productInput es el payload de producto ya validado
type productInput struct {
	Name     string
	Category string
	Price    float64
	Stock    int
	MinStock *int
	Supplier *string
	Image    *string
}

// parseProductInput valida el body en orden fijo: requeridos, price, stock, minStock.
// El primer error corta el resto.
func parseProductInput(body map[string]interface{}) (*productInput, error) {
	name, nameOK := body["name"].(string)
	category, categoryOK := body["category"].(string)
	_, hasStock := body[models.FieldStock]
	if !nameOK || !categoryOK || !hasStock ||
		!valid(name, "required") || !valid(category, "required") || !valid(body["price"], "required") {
		return nil, errMissingFields
	}

	price, ok := body["price"].(float64)
	if !ok || !valid(price, "gt=0") {
		return nil, errInvalidPrice
	}

	stock, ok := wholeNumber(body[models.FieldStock])
	if !ok || !valid(stock, "gte=0") {
		return nil, errInvalidStock
	}

	input := &productInput{
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
		Supplier: optionalString(body["supplier"]),
		Image:    optionalString(body["image"]),
	}

	if raw, present := body["minStock"]; present && raw != nil {
		minStock, ok := wholeNumber(raw)
		if !ok || !valid(minStock, "gte=0") {
			return nil, errInvalidMinStock
		}
		input.MinStock = &minStock
	}

	return input, nil
}

// patch arma el $set parcial. El status se deriva aquí y nunca viene del cliente.
func (in *productInput) patch() bson.M {
	update := bson.M{
		"name":            in.Name,
		"category":        in.Category,
		"price":           in.Price,
		models.FieldStock: in.Stock,
	}
	if in.MinStock != nil {
		update["minStock"] = *in.MinStock
	}
	if in.Supplier != nil {
		update["supplier"] = *in.Supplier
	}
	if in.Image != nil {
		update["image"] = *in.Image
	}
	applyDerivedStatus(update)
	return update
}

func (in *productInput) product() models.Product {
	p := models.Product{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		MinStock: in.MinStock,
		Status:   models.StatusForStock(in.Stock),
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	return p
}

// applyDerivedStatus recalcula status solo si el patch trae stock
func applyDerivedStatus(update bson.M) {
	stock, ok := update[models.FieldStock].(int)
	if !ok {
		return
	}
	update[models.FieldStatus] = models.StatusForStock(stock)
}

func optionalString(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// wholeNumber acepta números JSON enteros dentro del rango exacto de float64
func wholeNumber(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > maxWholeNumber {
		return 0, false
	}
	return int(f), true
}
