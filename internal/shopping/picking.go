package shopping

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/models"
)

// Picker stages the price, quantity and promo flag for one item and commits
// them into a session.
type Picker struct {
	item *models.GroceryItem

	PriceText string
	Quantity  int
	Promo     bool
}

// Select stages item for picking. The staged price comes from the item's
// estimated price; the item itself is left untouched.
func (p *Picker) Select(item *models.GroceryItem) {
	p.item = item
	p.PriceText = FormatPriceInput(item.EstimatedPrice)
	p.Quantity = item.Quantity
	p.Promo = item.IsPromo
}

// Selected returns the staged item, or nil.
func (p *Picker) Selected() *models.GroceryItem {
	return p.item
}

func (p *Picker) SetPrice(text string) {
	p.PriceText = text
}

func (p *Picker) SetQuantity(q int) {
	p.Quantity = q
}

func (p *Picker) SetPromo(promo bool) {
	p.Promo = promo
}

// Validate checks the staged input without committing it.
func (p *Picker) Validate() (float64, error) {
	price, err := ParsePrice(p.PriceText)
	if err != nil {
		return 0, err
	}
	if err := ValidateQuantity(p.Quantity); err != nil {
		return 0, err
	}
	return price, nil
}

// Confirm commits the staged input into the selected item and links it to
// session. Re-picking an item already in the session updates it in place.
// On a validation error the item and the staged input are left as they were.
func (p *Picker) Confirm(session *models.ShoppingSession) (*models.GroceryItem, error) {
	if p.item == nil {
		return nil, ErrNothingSelected
	}
	price, err := p.Validate()
	if err != nil {
		return nil, err
	}

	item := p.item
	item.Status = models.StatusBought
	item.ActualPrice = &price
	item.Quantity = p.Quantity
	item.IsPromo = p.Promo
	item.SessionID = session.ID
	if !session.HasItem(item.ID) {
		session.Items = append(session.Items, item)
	}

	p.Reset()
	return item, nil
}

// Reset drops the selection and restores the blank staging values.
func (p *Picker) Reset() {
	p.item = nil
	p.PriceText = ""
	p.Quantity = constants.MinQuantity
	p.Promo = false
}

var priceFormat = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParsePrice reads a price typed with either "," or "." as the decimal
// separator. Only plain digits with an optional fraction are accepted.
func ParsePrice(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if normalized == "" {
		return 0, &ValidationError{Field: "price", Err: ErrInvalidPrice}
	}
	if !priceFormat.MatchString(normalized) {
		return 0, &ValidationError{Field: "price", Value: text, Err: ErrInvalidPrice}
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "price", Value: text, Err: ErrInvalidPrice}
	}
	return v, nil
}

func ValidateQuantity(q int) error {
	if q < constants.MinQuantity || q > constants.MaxQuantity {
		return &ValidationError{Field: "quantity", Value: strconv.Itoa(q), Err: ErrInvalidQuantity}
	}
	return nil
}

// FormatPriceInput renders an optional price as editable text using the
// shortest decimal form ("3", "3.5"). A nil price yields "".
func FormatPriceInput(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}
