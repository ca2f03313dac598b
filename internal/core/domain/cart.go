package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLineOutOfRange  = errors.New("cart line out of range")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartLine is one product in the sale being assembled.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Model     string `json:"model,omitempty"`
	Code      string `json:"code,omitempty"`
	UnitPrice Cents  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (l CartLine) Amount() Cents {
	return l.UnitPrice * Cents(l.Quantity)
}

// Cart is the sale detail: the bound client, delivery details and the lines.
// Line quantities never drop below one; removing a line is explicit.
type Cart struct {
	Client   *Client
	Courier  string
	SaleType string
	Discount Cents
	Lines    []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add appends a product, or raises the quantity of its existing line.
func (c *Cart) Add(p *Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.SalePrice,
		Quantity:  quantity,
	})
	return nil
}

func (c *Cart) Increment(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Lines[index].Quantity++
	return nil
}

// Decrement lowers a line's quantity, stopping at one.
func (c *Cart) Decrement(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if c.Lines[index].Quantity > 1 {
		c.Lines[index].Quantity--
	}
	return nil
}

func (c *Cart) Remove(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

// BindClient attaches the resolved client; nil unbinds.
func (c *Cart) BindClient(client *Client) {
	c.Client = client
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() Cents {
	var sum Cents
	for _, l := range c.Lines {
		sum += l.Amount()
	}
	return sum
}

// Total is the subtotal minus the discount, never negative.
func (c *Cart) Total() Cents {
	total := c.Subtotal() - c.Discount
	if total < 0 {
		return 0
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	return nil
}
