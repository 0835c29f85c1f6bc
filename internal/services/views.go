package services

import (
	"context"

	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

// Display names for references whose target no longer exists.
const (
	DeletedProductName = "Deleted product"
	DeletedUserName    = "Deleted user"
)

type ProductSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Filepath string `json:"filepath"`
	Deleted  bool   `json:"deleted,omitempty"`
}

type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Deleted   bool   `json:"deleted,omitempty"`
}

type OrderItemView struct {
	models.OrderItem
	Product ProductSummary `json:"product"`
}

// OrderView is an order with its weak references resolved for display.
type OrderView struct {
	models.Order
	Items []OrderItemView `json:"items"`
	User  UserSummary     `json:"user"`
}

// buildOrderViews resolves product and user references of orders in two
// queries. Missing referents become the deleted sentinels.
func buildOrderViews(ctx context.Context, db *gorm.DB, orders []models.Order) ([]OrderView, error) {
	productIDs := map[uint]bool{}
	userIDs := map[uint]bool{}

	for _, o := range orders {
		userIDs[o.UserID] = true
		for _, it := range o.Items {
			productIDs[it.ProductID] = true
		}
	}

	products := map[uint]models.Product{}
	if len(productIDs) > 0 {
		var found []models.Product
		if err := db.WithContext(ctx).Where("id IN ?", keys(productIDs)).Find(&found).Error; err != nil {
			return nil, dbErr("load order products", err)
		}
		for _, p := range found {
			products[p.ID] = p
		}
	}

	users := map[uint]models.User{}
	if len(userIDs) > 0 {
		var found []models.User
		if err := db.WithContext(ctx).Where("id IN ?", keys(userIDs)).Find(&found).Error; err != nil {
			return nil, dbErr("load order users", err)
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	views := make([]OrderView, 0, len(orders))

	for _, o := range orders {
		v := OrderView{Order: o, Items: make([]OrderItemView, 0, len(o.Items))}

		if u, ok := users[o.UserID]; ok {
			v.User = UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
		} else {
			v.User = UserSummary{ID: o.UserID, FirstName: DeletedUserName, Deleted: true}
		}

		for _, it := range o.Items {
			iv := OrderItemView{OrderItem: it}
			if p, ok := products[it.ProductID]; ok {
				iv.Product = ProductSummary{ID: p.ID, Name: p.Name, Filepath: p.Filepath}
			} else {
				iv.Product = ProductSummary{ID: it.ProductID, Name: DeletedProductName, Deleted: true}
			}
			v.Items = append(v.Items, iv)
		}

		views = append(views, v)
	}

	return views, nil
}

func keys(m map[uint]bool) []uint {
	out := make([]uint, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
