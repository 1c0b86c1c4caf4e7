package memstore

import (
	"context"
	"sort"

	"shop-backoffice/internal/shop"
)

func (s *Store) TopProductsBySold(ctx context.Context, n int) ([]shop.ProductSales, error) {
	defer s.enter(ctx)()
	sold := map[string]int{}
	for _, it := range s.data.items {
		sold[it.ProductID] += it.Quantity
	}
	var sales []shop.ProductSales
	for _, p := range s.data.products {
		sales = append(sales, shop.ProductSales{Product: p, TotalSold: sold[p.ID]})
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].TotalSold != sales[j].TotalSold {
			return sales[i].TotalSold > sales[j].TotalSold
		}
		return sales[i].Product.Name < sales[j].Product.Name
	})
	if len(sales) > n {
		sales = sales[:n]
	}
	return sales, nil
}

func (s *Store) NewestCategories(ctx context.Context, n int) ([]shop.ProductCategory, error) {
	defer s.enter(ctx)()
	var cats []shop.ProductCategory
	for _, c := range s.data.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].CreatedAt.After(cats[j].CreatedAt) })
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats, nil
}

func (s *Store) RecentOrders(ctx context.Context, n int) ([]shop.Order, error) {
	defer s.enter(ctx)()
	var orders []shop.Order
	for _, o := range s.data.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DateOrdered.After(orders[j].DateOrdered) })
	if len(orders) > n {
		orders = orders[:n]
	}
	return orders, nil
}

func (s *Store) CategorySummaries(ctx context.Context) ([]shop.CategorySummary, error) {
	defer s.enter(ctx)()
	var summaries []shop.CategorySummary
	for _, c := range s.data.categories {
		cs := shop.CategorySummary{Category: c}
		for _, p := range s.data.products {
			if p.CategoryID != c.ID {
				continue
			}
			cs.ProductCount++
			for _, it := range s.data.items {
				if it.ProductID == p.ID {
					cs.OrderedItemCount++
					cs.TotalQuantityOrdered += it.Quantity
				}
			}
		}
		summaries = append(summaries, cs)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category.Name < summaries[j].Category.Name
	})
	return summaries, nil
}
