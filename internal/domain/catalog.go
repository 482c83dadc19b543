package domain

import "errors"

var (
	ErrShopNotFound     = errors.New("shop not found")
	ErrNotShopUser      = errors.New("only shop users can manage a shop")
	ErrInvalidPriceList = errors.New("invalid price list")
	ErrShopNameTaken    = errors.New("shop with this name belongs to another user")
	ErrPriceListFetch   = errors.New("price list could not be downloaded")
)

type Shop struct {
	ID     int64
	Name   string
	URL    string
	UserID *int64
	// State reports whether the shop accepts orders.
	State bool
}

type Category struct {
	ID   int64
	Name string
}

type Product struct {
	ID         int64
	Name       string
	CategoryID int64
	Category   string
}

type ProductParameter struct {
	Name  string
	Value string
}

type ProductInfo struct {
	ID         int64
	ProductID  int64
	ShopID     int64
	Model      string
	ExternalID int64
	Quantity   int
	Price      int64
	PriceRRC   int64

	Product    Product
	ShopName   string
	Parameters []ProductParameter
}

// PriceList is a partner's catalog document: the shop itself, the
// categories it trades in and its goods.
type PriceList struct {
	Shop       string
	URL        string
	Categories []PriceListCategory
	Goods      []PriceListGood
}

type PriceListCategory struct {
	ID   int64
	Name string
}

type PriceListGood struct {
	ID         int64
	CategoryID int64
	Model      string
	Name       string
	Price      int64
	PriceRRC   int64
	Quantity   int
	Parameters []ProductParameter
}

// ImportResult summarises what a price-list import wrote.
type ImportResult struct {
	ShopID     int64
	Categories int
	Products   int
}
