package service

import (
	"context"
	"errors"
	"math"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crm/pkg/domain/model"
)

const (
	maxNameLength  = 255
	maxEmailLength = 254
	priceScale     = 2
	// INT column upper bound.
	maxStock = math.MaxInt32
)

var (
	phonePattern = regexp.MustCompile(`^(\+?\d{9,15}|\d{3}-\d{3}-\d{4})$`)
	// DECIMAL(10,2) upper bound.
	maxPrice = decimal.New(1, 8)
	// DECIMAL(20,2) upper bound.
	maxTotalAmount = decimal.New(1, 18)
)

// ValidateCustomerFields checks a candidate customer without touching the store.
func ValidateCustomerFields(customer *model.Customer) error {
	if err := validateName(customer.Name); err != nil {
		return err
	}
	if err := validateEmail(customer.Email); err != nil {
		return err
	}
	if customer.Phone != "" && !phonePattern.MatchString(customer.Phone) {
		return model.NewFieldError("phone", "phone %q must look like +1234567890 or 123-456-7890", customer.Phone)
	}
	return nil
}

// ValidateCustomer runs the field checks and the email pre-check. The
// pre-check is advisory: the store's unique index has the final word.
func ValidateCustomer(ctx context.Context, repo model.CustomerRepository, customer *model.Customer) error {
	if err := ValidateCustomerFields(customer); err != nil {
		return err
	}

	_, err := repo.FindByEmail(ctx, customer.Email)
	if err == nil {
		return duplicateEmail(customer.Email)
	}
	if !errors.Is(err, model.ErrCustomerNotFound) {
		return err
	}
	return nil
}

func ValidateProduct(product *model.Product) error {
	if !product.Price.IsPositive() {
		return model.NewError(model.InvalidPrice, "price must be positive, got %s", product.Price.String())
	}
	if product.Stock < 0 {
		return model.NewError(model.InvalidStock, "stock cannot be negative, got %d", product.Stock)
	}
	if err := validateName(product.Name); err != nil {
		return err
	}
	if !product.Price.Equal(product.Price.Round(priceScale)) {
		return model.NewFieldError("price", "price %s has more than %d decimal places", product.Price.String(), priceScale)
	}
	if product.Price.GreaterThanOrEqual(maxPrice) {
		return model.NewFieldError("price", "price %s is too large", product.Price.String())
	}
	if product.Stock > maxStock {
		return model.NewFieldError("stock", "stock %d is too large", product.Stock)
	}
	return nil
}

func ValidateTotalAmount(total decimal.Decimal) error {
	if total.GreaterThanOrEqual(maxTotalAmount) {
		return model.NewFieldError("productIds", "order total %s is too large", total.String())
	}
	return nil
}

// ResolveOrderReferences resolves the customer and the de-duplicated product
// set of a candidate order. Every supplied product id has to resolve.
func ResolveOrderReferences(
	ctx context.Context,
	customers model.CustomerRepository,
	products model.ProductRepository,
	customerID uuid.UUID,
	productIDs []uuid.UUID,
) (*model.Customer, []model.Product, error) {
	customer, err := customers.Find(ctx, customerID)
	if errors.Is(err, model.ErrCustomerNotFound) {
		return nil, nil, model.NewError(model.CustomerNotFound, "customer %s does not exist", customerID)
	}
	if err != nil {
		return nil, nil, err
	}

	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return nil, nil, model.ErrEmptyProductList
	}

	found, err := products.FindMany(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	resolved := make([]model.Product, 0, len(ids))
	var missing []string
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		resolved = append(resolved, p)
	}
	if len(missing) > 0 {
		return nil, nil, model.NewError(model.ProductNotFound, "products do not exist: %s", strings.Join(missing, ", "))
	}
	return customer, resolved, nil
}

func TotalAmount(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewFieldError("name", "name cannot be blank")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return model.NewFieldError("name", "name cannot be longer than %d characters", maxNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return model.NewFieldError("email", "email cannot be blank")
	}
	if len(email) > maxEmailLength {
		return model.NewFieldError("email", "email cannot be longer than %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.NewFieldError("email", "%q is not a valid email address", email)
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return model.NewFieldError("email", "%q is not a valid email address", email)
	}
	return nil
}

func duplicateEmail(email string) error {
	return model.NewError(model.DuplicateEmail, "email %s already exists", email)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
