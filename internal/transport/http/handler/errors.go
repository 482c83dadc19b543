package handler

import (
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer    = "Internal server error"
	errTokenInvalid      = "Token or email is invalid"
	errInvalidCredential = "Invalid email or password"
	errUserInactive      = "User is not active, confirm your email first"
	errEmailTaken        = "User with this email already exists"
	errUserNotFound      = "User not found"
	errContactNotFound   = "Contact not found"
	errInvalidItems      = "Items must be a comma separated list of ids"
	errInvalidQuery      = "Invalid query parameter"
	errNotShopUser       = "Only shop accounts can manage a shop"
	errShopNotFound      = "Shop not found"
	errShopNameTaken     = "Shop with this name belongs to another user"
	errPriceListFetch    = "Price list could not be downloaded"
	errNoPriceList       = "Send a price list document or its url"
	errInvalidState      = "State must be a boolean"
)

// fail writes the {"Status": false, "Errors": ...} envelope every endpoint uses.
func fail(c *gin.Context, status int, errs any) {
	c.JSON(status, gin.H{"Status": false, "Errors": errs})
}

func ok(c *gin.Context, status int, extra gin.H) {
	body := gin.H{"Status": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
