package controllers

import (
	"github.com/ManuelReschke/HouseHub/internal/pkg/account"
	"github.com/ManuelReschke/HouseHub/internal/pkg/contact"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
)

// Services are the workflows the controllers delegate to
type Services struct {
	Housing        *housing.Service
	Accounts       *account.Service
	Contact        *contact.Service
	Statistics     StatisticsSource
	OAuthProviders []string
}

// Controllers bundles the handlers the router mounts
type Controllers struct {
	Listing *ListingController
	Auth    *AuthController
	User    *UserController
	Contact *ContactController
	OAuth   *OAuthController
	Page    *PageController
}

func New(s Services) *Controllers {
	oauthProviders = s.OAuthProviders
	return &Controllers{
		Listing: NewListingController(s.Housing),
		Auth:    NewAuthController(s.Accounts),
		User:    NewUserController(s.Accounts),
		Contact: NewContactController(s.Contact),
		OAuth:   NewOAuthController(s.Accounts),
		Page:    NewPageController(s.Statistics),
	}
}
