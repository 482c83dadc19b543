package domain

import "errors"

var ErrContactNotFound = errors.New("contact not found")

type Contact struct {
	ID         int64
	UserID     int64
	Country    string
	Region     string
	City       string
	Street     string
	House      string
	Structure  string
	Building   string
	Apartment  string
	Phone      string
	PostalCode string
}
