package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una presentación de producto de la planta (botellón,
// garrafa, etc.). Returnable marca los envases retornables; afecta qué
// reportes lo incluyen, no la matemática del libro. Price se usa solo para
// valorización en reportes.
type Product struct {
	ID         string
	SKU        string // código único
	Name       string
	Returnable bool
	Price      decimal.Decimal // precio de venta (valorización de reportes)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
