package seeders

import (
	"context"
	"errors"
	"time"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
}

var demoUsers = []models.User{
	{Name: "Resell Admin", Email: "admin@resell.bd", AccountType: "seller", Verified: true, Role: models.RoleAdmin},
	{Name: "Karim Uddin", Email: "karim@resell.bd", AccountType: "seller", Verified: true},
	{Name: "Shila Akter", Email: "shila@resell.bd", AccountType: "seller"},
	{Name: "Nadia Islam", Email: "nadia@resell.bd", AccountType: "buyer"},
}

// SeedUsers inserts the demo accounts. Existing emails are left alone.
func SeedUsers(ctx context.Context, store *repositories.Store) error {
	for _, u := range demoUsers {
		u := u
		if _, err := store.Users.Create(ctx, &u); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
			return err
		}
	}
	return nil
}

// SeedProducts lists a few items per demo seller, stamped with the seller's
// verification state the same way a live listing is.
func SeedProducts(ctx context.Context, store *repositories.Store) error {
	existing, err := store.Products.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	posted := time.Now().UTC()
	listings := []models.Product{
		{Name: "Hatil Sofa Set", Category: "furniture", Condition: "good", Location: "Dhaka", ResalePrice: 18000, OriginalPrice: 42000, YearsOfUse: 3, SellerName: "Karim Uddin", SellerEmail: "karim@resell.bd"},
		{Name: "Study Table", Category: "furniture", Condition: "excellent", Location: "Dhaka", ResalePrice: 4500, OriginalPrice: 9000, YearsOfUse: 1, SellerName: "Karim Uddin", SellerEmail: "karim@resell.bd"},
		{Name: "Walton Refrigerator", Category: "appliance", Condition: "fair", Location: "Chattogram", ResalePrice: 15000, OriginalPrice: 38000, YearsOfUse: 5, SellerName: "Shila Akter", SellerEmail: "shila@resell.bd"},
		{Name: "Phoenix Bicycle", Category: "vehicle", Condition: "good", Location: "Sylhet", ResalePrice: 6000, OriginalPrice: 14000, YearsOfUse: 2, SellerName: "Shila Akter", SellerEmail: "shila@resell.bd"},
	}

	for _, p := range listings {
		p := p
		p.PostedAt = &posted
		if seller, err := store.Users.FindByEmail(ctx, p.SellerEmail); err == nil {
			p.Verified = seller.Verified
		}
		if _, err := store.Products.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
